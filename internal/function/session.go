package function

import (
	"context"
	"time"

	"report-function-service/internal/models"
)

// Evaluator runs function configs against a reading source. It holds no
// per-run state; concurrent evaluations for different tags are safe.
type Evaluator struct {
	src      ReadingSource
	defaults Defaults
}

// NewEvaluator constructs an Evaluator with the given defaults table.
func NewEvaluator(src ReadingSource, defaults Defaults) *Evaluator {
	return &Evaluator{src: src, defaults: defaults}
}

// validateInputs checks every required role before any data is queried and
// reports the first absent one.
func validateInputs(spec kindSpec, cfg *models.FunctionConfig) *Error {
	for _, role := range spec.requires {
		switch role {
		case RoleLocations:
			if len(cfg.LocationTagIDs) == 0 {
				return newError(ErrMissingInput, string(role))
			}
		case RoleStart:
			if cfg.StartTagID == "" {
				return newError(ErrMissingInput, string(role))
			}
		case RoleEnd:
			if cfg.EndTagID == "" {
				return newError(ErrMissingInput, string(role))
			}
		case RoleCenter:
			if cfg.CenterTagID == "" {
				return newError(ErrMissingInput, string(role))
			}
		case RolePower:
			if cfg.StartPowerTagID == "" || cfg.EndPowerTagID == "" {
				return newError(ErrMissingInput, string(role))
			}
		case RoleTime:
			if cfg.TimeTagID == "" {
				return newError(ErrMissingInput, string(role))
			}
		}
	}
	return nil
}

// Evaluate runs one computation and returns its result envelope without
// mutating anything. It is a deterministic function of the config, the task
// id, the roster, and the store's reading set.
func (e *Evaluator) Evaluate(ctx context.Context, taskID string, cfg *models.FunctionConfig, roster Roster) models.FunctionResult {
	kind := Kind(cfg.FunctionType)
	spec, ok := kinds[kind]
	if !ok {
		return errorResult(newError(ErrUnknownFunction, cfg.FunctionType), "")
	}
	if err := validateInputs(spec, cfg); err != nil {
		return errorResult(err, "")
	}

	decimals := spec.decimals
	if spec.honorsDecimals && cfg.DecimalPlaces != nil {
		decimals = *cfg.DecimalPlaces
	}

	// Kinds that bypass the generic window resolver.
	switch kind {
	case KindPowerConsumptionRate, KindMaxPowerUsageDuration:
		out, err := runPower(kind, cfg, roster)
		if err != nil {
			return errorResult(err, "")
		}
		return successResult(decimals, out, "")
	case KindDeviceTimePointTemp:
		out, err := runDeviceTimePoint(ctx, e.src, taskID, cfg, roster)
		if err != nil {
			return errorResult(err, "")
		}
		return successResult(decimals, out, "")
	case KindAvgCoolingRate:
		out, err := runCoolingRate(ctx, e.src, taskID, cfg, roster)
		if err != nil {
			return errorResult(err, "")
		}
		return successResult(decimals, out, "")
	}

	w, werr := resolveWindow(ctx, e.src, taskID, cfg, roster)
	if werr != nil {
		queryInfo := ""
		if w != nil {
			queryInfo = w.queryInfo
		}
		return errorResult(werr, queryInfo)
	}

	var out *outcome
	var err *Error
	switch spec.family {
	case familyScalar:
		out, err = runScalar(kind, spec, w)
	case familyThreshold:
		threshold, terr := resolveThreshold(kind, cfg, roster, e.defaults)
		if terr != nil {
			return errorResult(terr, w.queryInfo)
		}
		out, err = runThreshold(kind, spec, w, threshold)
	case familyExtremum:
		out, err = runExtremum(kind, w)
	case familyUniformity:
		out, err = runUniformity(kind, w)
	default:
		switch kind {
		case KindCenterPointTempDeviation:
			out, err = runCenterDeviation(cfg, roster, w)
		case KindTempAvgDeviation:
			out, err = runAvgDeviation(cfg, roster, e.defaults, w)
		}
	}
	if err != nil {
		return errorResult(err, w.queryInfo)
	}
	return successResult(decimals, out, w.queryInfo)
}

// Execute runs Evaluate, then writes the derived value onto the evaluated
// tag on success and appends the run snapshot to the config either way. An
// error outcome never touches the tag's value.
func (e *Evaluator) Execute(ctx context.Context, taskID string, cfg *models.FunctionConfig, roster Roster) models.FunctionResult {
	result := e.Evaluate(ctx, taskID, cfg, roster)

	tag, ok := roster[cfg.TagID]
	if !ok {
		result = errorResult(newError(ErrTagNotFound, cfg.TagID), "")
	} else if result.Status == models.StatusSuccess {
		tag.Value = coerceValue(tag.Type, result.Value)
	}

	now := time.Now()
	cfg.LastRunAt = &now
	cfg.LastStatus = result.Status
	cfg.LastMessage = result.Message
	cfg.LastResult = result.Value
	return result
}

// coerceValue adapts the derived value to the tag's declared type on
// write-back.
func coerceValue(tagType models.TagType, value any) any {
	switch tagType {
	case models.TagLocation:
		if s, ok := value.(string); ok {
			return ToLocationSet(s)
		}
		return value
	default:
		return value
	}
}
