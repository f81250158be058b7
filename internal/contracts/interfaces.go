package contracts

import "context"

// SnapshotSource fetches a complete market snapshot for a ticker
// ⭐ SSOT: 외부 데이터 소스 인터페이스
type SnapshotSource interface {
	Fetch(ctx context.Context, symbol string) (*MarketSnapshot, error)
}

// CandidateAnalyzer turns a chain snapshot into ranked candidates
// ⭐ SSOT: 선택 파이프라인 인터페이스
type CandidateAnalyzer interface {
	Analyze(ctx context.Context, snapshot *ChainSnapshot, cfg AnalysisConfig) (*AnalysisResult, error)
}
