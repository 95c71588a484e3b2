package ledger

// PointsPerActivity 每个完成的活动贡献的百分点
const PointsPerActivity = 20

type Progress struct {
	Percentage    int  `json:"percentage"`
	FullyComplete bool `json:"fullyComplete"`
}

// ComputeProgress 只依赖已完成活动的集合
func ComputeProgress(f Flags) Progress {
	pct := PointsPerActivity * f.Count()
	return Progress{
		Percentage:    pct,
		FullyComplete: pct >= 100,
	}
}
