package function

// Kind identifies one of the closed set of supported computations.
type Kind string

const (
	KindMaxTemp     Kind = "maxTemp"
	KindMinTemp     Kind = "minTemp"
	KindAvgTemp     Kind = "avgTemp"
	KindMaxHumidity Kind = "maxHumidity"
	KindMinHumidity Kind = "minHumidity"
	KindAvgHumidity Kind = "avgHumidity"

	KindTempReachUpper     Kind = "tempReachUpper"
	KindTempReachLower     Kind = "tempReachLower"
	KindHumidityReachUpper Kind = "humidityReachUpper"
	KindHumidityReachLower Kind = "humidityReachLower"

	KindTempExceedUpper     Kind = "tempExceedUpper"
	KindTempExceedLower     Kind = "tempExceedLower"
	KindHumidityExceedUpper Kind = "humidityExceedUpper"
	KindHumidityExceedLower Kind = "humidityExceedLower"

	KindTempFirstReachUpperTime Kind = "tempFirstReachUpperTime"
	KindTempFirstReachLowerTime Kind = "tempFirstReachLowerTime"

	KindMaxTempLocation Kind = "maxTempLocation"
	KindMinTempLocation Kind = "minTempLocation"
	KindTempMaxTime     Kind = "tempMaxTime"
	KindTempMinTime     Kind = "tempMinTime"

	KindMaxTempDiffAtSameTime Kind = "maxTempDiffAtSameTime"
	KindMaxTempDiffTimePoint  Kind = "maxTempDiffTimePoint"
	KindTempUniformity        Kind = "tempUniformity"
	KindTempVariationRangeSum Kind = "tempVariationRangeSum"
	KindTempFluctuation       Kind = "tempFluctuation"
	KindTempUniformityAverage Kind = "tempUniformityAverage"
	KindTempUniformityMax     Kind = "tempUniformityMax"
	KindTempUniformityMin     Kind = "tempUniformityMin"
	KindTempUniformityValue   Kind = "tempUniformityValue"

	KindCenterPointTempDeviation Kind = "centerPointTempDeviation"
	KindTempAvgDeviation         Kind = "tempAvgDeviation"
	KindPowerConsumptionRate     Kind = "powerConsumptionRate"
	KindMaxPowerUsageDuration    Kind = "maxPowerUsageDuration"
	KindDeviceTimePointTemp      Kind = "deviceTimePointTemp"
	KindAvgCoolingRate           Kind = "avgCoolingRate"
)

// Role names one input the dispatcher validates before running a kind.
type Role string

const (
	RoleLocations Role = "测点标签"
	RoleStart     Role = "开始时间标签"
	RoleEnd       Role = "结束时间标签"
	RoleCenter    Role = "中心点标签"
	RolePower     Role = "电量标签"
	RoleTime      Role = "时间点标签"
)

type family int

const (
	familyScalar family = iota
	familyThreshold
	familyExtremum
	familyUniformity
	familyExternal
)

type kindSpec struct {
	family   family
	requires []Role
	decimals int
	// honorsDecimals marks kinds whose precision follows the config's
	// decimal-places override.
	honorsDecimals bool
	humidity       bool
	upper          bool
}

var windowRoles = []Role{RoleLocations, RoleStart, RoleEnd}

var kinds = map[Kind]kindSpec{
	KindMaxTemp:     {family: familyScalar, requires: windowRoles, decimals: 1},
	KindMinTemp:     {family: familyScalar, requires: windowRoles, decimals: 1},
	KindAvgTemp:     {family: familyScalar, requires: windowRoles, decimals: 1},
	KindMaxHumidity: {family: familyScalar, requires: windowRoles, decimals: 1, humidity: true},
	KindMinHumidity: {family: familyScalar, requires: windowRoles, decimals: 1, humidity: true},
	KindAvgHumidity: {family: familyScalar, requires: windowRoles, decimals: 1, humidity: true},

	KindTempReachUpper:     {family: familyThreshold, requires: windowRoles, upper: true},
	KindTempReachLower:     {family: familyThreshold, requires: windowRoles},
	KindHumidityReachUpper: {family: familyThreshold, requires: windowRoles, humidity: true, upper: true},
	KindHumidityReachLower: {family: familyThreshold, requires: windowRoles, humidity: true},

	KindTempExceedUpper:     {family: familyThreshold, requires: windowRoles, upper: true},
	KindTempExceedLower:     {family: familyThreshold, requires: windowRoles},
	KindHumidityExceedUpper: {family: familyThreshold, requires: windowRoles, humidity: true, upper: true},
	KindHumidityExceedLower: {family: familyThreshold, requires: windowRoles, humidity: true},

	KindTempFirstReachUpperTime: {family: familyThreshold, requires: windowRoles, upper: true},
	KindTempFirstReachLowerTime: {family: familyThreshold, requires: windowRoles},

	KindMaxTempLocation: {family: familyExtremum, requires: windowRoles},
	KindMinTempLocation: {family: familyExtremum, requires: windowRoles},
	KindTempMaxTime:     {family: familyExtremum, requires: windowRoles},
	KindTempMinTime:     {family: familyExtremum, requires: windowRoles},

	KindMaxTempDiffAtSameTime: {family: familyUniformity, requires: windowRoles, decimals: 1},
	KindMaxTempDiffTimePoint:  {family: familyUniformity, requires: windowRoles},
	KindTempUniformity:        {family: familyUniformity, requires: windowRoles, decimals: 2},
	KindTempVariationRangeSum: {family: familyUniformity, requires: windowRoles, decimals: 1},
	KindTempFluctuation:       {family: familyUniformity, requires: windowRoles, decimals: 2, honorsDecimals: true},
	KindTempUniformityAverage: {family: familyUniformity, requires: windowRoles, decimals: 2, honorsDecimals: true},
	KindTempUniformityMax:     {family: familyUniformity, requires: windowRoles, decimals: 1},
	KindTempUniformityMin:     {family: familyUniformity, requires: windowRoles, decimals: 1},
	KindTempUniformityValue:   {family: familyUniformity, requires: windowRoles, decimals: 2},

	KindCenterPointTempDeviation: {family: familyExternal, requires: []Role{RoleLocations, RoleStart, RoleEnd, RoleCenter}, decimals: 1},
	KindTempAvgDeviation:         {family: familyExternal, requires: windowRoles, decimals: 1},
	KindPowerConsumptionRate:     {family: familyExternal, requires: []Role{RoleStart, RoleEnd, RolePower}, decimals: 2},
	KindMaxPowerUsageDuration:    {family: familyExternal, requires: []Role{RoleStart, RoleEnd, RolePower}, decimals: 2},
	KindDeviceTimePointTemp:      {family: familyExternal, requires: []Role{RoleLocations, RoleTime}, decimals: 2},
	KindAvgCoolingRate:           {family: familyExternal, requires: []Role{RoleLocations, RoleStart, RoleEnd}, decimals: 3},
}

// Defaults is the injectable table of fallback thresholds and literals used
// when a config supplies neither an override nor a source tag.
type Defaults struct {
	Thresholds map[Kind]float64
	MaxTemp    float64
	MinTemp    float64
	Decimals   int
}

// NewDefaults returns the production defaults table.
func NewDefaults() Defaults {
	return Defaults{
		Thresholds: map[Kind]float64{
			KindTempReachUpper:          8,
			KindTempExceedUpper:         8,
			KindTempFirstReachUpperTime: 8,
			KindTempReachLower:          2,
			KindTempExceedLower:         2,
			KindTempFirstReachLowerTime: 2,
			KindHumidityReachUpper:      80,
			KindHumidityExceedUpper:     80,
			KindHumidityReachLower:      20,
			KindHumidityExceedLower:     20,
		},
		MaxTemp:  8,
		MinTemp:  2,
		Decimals: 2,
	}
}

// Kinds lists every registered function kind.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	return out
}
