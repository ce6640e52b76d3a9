package stats

// ============================================================================
// SURVIVAL
// ============================================================================

// SurvivalPoint is one step of a Kaplan-Meier curve.
// INVARIANTS:
// - SurvivalProbability is non-increasing across time-ordered points
// - 0 <= CILower <= SurvivalProbability <= CIUpper <= 1
// - AtRisk is non-increasing
type SurvivalPoint struct {
	Time                float64 `json:"time"`
	SurvivalProbability float64 `json:"survivalProbability"`
	CILower             float64 `json:"ciLower"`
	CIUpper             float64 `json:"ciUpper"`
	AtRisk              int     `json:"atRisk"`
	Events              int     `json:"events"`
	Censored            int     `json:"censored"`
}

// SurvivalResult is the output of one Kaplan-Meier estimate
type SurvivalResult struct {
	Points         []SurvivalPoint `json:"points"`
	MedianSurvival *float64        `json:"medianSurvival"` // nil when survival never reaches 0.5
	CensoredTimes  []float64       `json:"censoredTimes"`
	Subjects       int             `json:"subjects"`
	TotalEvents    int             `json:"totalEvents"`
}

// LogRankResult compares survival curves across groups
type LogRankResult struct {
	ChiSquare float64            `json:"chiSquare"`
	DF        int                `json:"df"`
	PValue    float64            `json:"pvalue"`
	Observed  map[string]float64 `json:"observed"`
	Expected  map[string]float64 `json:"expected"`
}

// ============================================================================
// ROC
// ============================================================================

// RocPoint is one operating point of a ROC curve. Threshold is the highest score
// cut-off producing the point; the origin uses +Inf and is not serialized.
type RocPoint struct {
	FalsePositiveRate float64 `json:"falsePositiveRate"`
	TruePositiveRate  float64 `json:"truePositiveRate"`
	Threshold         float64 `json:"-"`
}

// RocResult is the output of a ROC analysis
type RocResult struct {
	Points           []RocPoint `json:"points"`
	AUC              float64    `json:"auc"`
	AUCSE            float64    `json:"aucSE"`
	AUCCILo          float64    `json:"aucCILo"`
	AUCCIHi          float64    `json:"aucCIHi"`
	AUCPValue        float64    `json:"aucPValue"`
	OptimalThreshold float64    `json:"-"`
	Sensitivity      float64    `json:"sensitivity"`
	Specificity      float64    `json:"specificity"`
	Accuracy         float64    `json:"accuracy"`
	PPV              float64    `json:"ppv"`
	NPV              float64    `json:"npv"`
	Positives        int        `json:"positives"`
	Negatives        int        `json:"negatives"`
}
