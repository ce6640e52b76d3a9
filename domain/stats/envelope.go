package stats

import (
	"fmt"
	"math"
)

// Result key vocabulary consumed by the UI layer. Keys are stable; renaming one
// requires a compatibility shim.
const (
	KeyStatistic   = "statistic"
	KeyPValue      = "pvalue"
	KeyDF          = "df"
	KeyDF2         = "df2"
	KeySignificant = "significant"
	KeyEffectSize  = "effectSize"
	KeyMeanDiff    = "meanDifference"
	KeyCILower     = "ciLower"
	KeyCIUpper     = "ciUpper"
	KeyN           = "n"
	KeyRSquared    = "rSquared"
	KeyAdjRSquared = "adjustedRSquared"
	KeyZ           = "z"

	KeyAUC              = "auc"
	KeyAUCSE            = "aucSE"
	KeyAUCCILo          = "aucCILo"
	KeyAUCCIHi          = "aucCIHi"
	KeyOptimalThreshold = "optimalThreshold"
	KeySensitivity      = "sensitivity"
	KeySpecificity      = "specificity"

	KeyMedianSurvival = "medianSurvival"
	KeyTotalEvents    = "totalEvents"
	KeyCensored       = "censored"

	InfoWarnings      = "warnings"
	InfoDroppedGroups = "droppedGroups"
	InfoGroupLabels   = "groupLabels"
	InfoDescriptives  = "descriptives"
	InfoWelch         = "welch"
	InfoMeanRanks     = "meanRanks"
	InfoAnovaTable    = "anovaTable"
	InfoCoefficients  = "coefficients"
	InfoCurve         = "curve"
	InfoCensoredTimes = "censoredTimes"
	InfoGroupCurves   = "groupCurves"
	InfoLogRank       = "logRank"
	InfoOperating     = "operatingPoint"
)

// Metadata describes which method produced an envelope
type Metadata struct {
	Method   string `json:"method"`
	MethodID string `json:"methodId,omitempty"`
	Family   string `json:"family,omitempty"`
	RunID    string `json:"runId,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

// ResultEnvelope is the uniform output of every executor call
type ResultEnvelope struct {
	MainResults    map[string]any `json:"mainResults"`
	AdditionalInfo map[string]any `json:"additionalInfo"`
	Metadata       Metadata       `json:"metadata"`
}

// NewEnvelope creates an empty envelope for a method
func NewEnvelope(meta Metadata) *ResultEnvelope {
	return &ResultEnvelope{
		MainResults:    make(map[string]any),
		AdditionalInfo: make(map[string]any),
		Metadata:       meta,
	}
}

// SetMain stores a scalar main result. Non-finite numbers are stored as strings
// so the envelope always survives JSON encoding.
func (e *ResultEnvelope) SetMain(key string, value any) {
	if f, ok := value.(float64); ok {
		e.MainResults[key] = Scalar(f)
		return
	}
	e.MainResults[key] = value
}

// Scalar returns f unchanged when finite and its string form otherwise.
// Use it for numbers placed in additionalInfo tables.
func Scalar(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return formatNonFinite(f)
	}
	return f
}

// Warn appends a non-fatal notice to additionalInfo
func (e *ResultEnvelope) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	existing, _ := e.AdditionalInfo[InfoWarnings].([]string)
	e.AdditionalInfo[InfoWarnings] = append(existing, msg)
}

// Warnings returns the notices recorded so far
func (e *ResultEnvelope) Warnings() []string {
	w, _ := e.AdditionalInfo[InfoWarnings].([]string)
	return w
}

// ValidateMain checks that every main result is a number, string or bool
func (e *ResultEnvelope) ValidateMain() error {
	for key, value := range e.MainResults {
		switch v := value.(type) {
		case string, bool, int, int64:
		case float64:
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("main result %q is not finite", key)
			}
		default:
			return fmt.Errorf("main result %q has unsupported type %T", key, value)
		}
	}
	return nil
}

func formatNonFinite(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return "NaN"
}
