package model

// BucketResult is one computed output row, one per successfully parsed
// VolumeBucket. Monetary fields are rounded to 2 decimals; EfficiencyRatio is
// revenue per million of notional turnover (RPM).
type BucketResult struct {
	BucketLabel     string  `json:"bucketLabel"`
	FilledVolume    float64 `json:"filledVolume"`
	AssignedLevelID int     `json:"assignedLevelId"`
	AssignedSpread  float64 `json:"assignedSpread"`
	Turnover        float64 `json:"turnover"`
	Revenue         float64 `json:"revenue"`
	EfficiencyRatio float64 `json:"efficiencyRatio"`
}

// SkippedBucket identifies a histogram row whose range label did not parse.
// Skips are non-fatal; the rest of the computation proceeds.
type SkippedBucket struct {
	Index      int    `json:"index"`
	RangeLabel string `json:"rangeLabel"`
}

// ScenarioResult is the full output of one ladder+histogram run.
type ScenarioResult struct {
	Results      []BucketResult  `json:"results"`
	Skipped      []SkippedBucket `json:"skipped,omitempty"`
	TotalRevenue float64         `json:"totalRevenue"`
}

// LevelFillSummary is the per-level utilisation row: how many buckets a level
// absorbed, how much volume, the revenue it earned and its aggregate RPM.
// FillVolumePct is the share of total fill volume across all levels.
type LevelFillSummary struct {
	LevelID         int     `json:"levelId"`
	FillCount       int     `json:"fillCount"`
	FillVolume      float64 `json:"fillVolume"`
	FillVolumePct   float64 `json:"fillVolumePct"`
	Revenue         float64 `json:"revenue"`
	EfficiencyRatio float64 `json:"efficiencyRatio"`
}

// BucketDelta is scenario B's result row annotated with its revenue change
// against the same bucket in scenario A.
type BucketDelta struct {
	BucketResult
	RevenueDeltaPct float64 `json:"revenueDeltaPct"`
}

// Comparison is the A-vs-B output consumed by the presentation layer.
// Both scenarios are computed independently; only this struct combines them.
type Comparison struct {
	ResultsA          []BucketResult     `json:"resultsA"`
	ResultsB          []BucketDelta      `json:"resultsB"`
	SummaryA          []LevelFillSummary `json:"summaryA"`
	SummaryB          []LevelFillSummary `json:"summaryB"`
	Skipped           []SkippedBucket    `json:"skipped,omitempty"`
	TotalRevenueA     float64            `json:"totalRevenueA"`
	TotalRevenueB     float64            `json:"totalRevenueB"`
	TotalRevenueDelta float64            `json:"totalRevenueDelta"`
}
