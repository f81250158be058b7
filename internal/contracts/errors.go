package contracts

import "errors"

var (
	// ErrInvalidSnapshot marks a missing or unusable chain snapshot (UpstreamFailure)
	ErrInvalidSnapshot = errors.New("invalid chain snapshot")

	// ErrInvalidConfig marks analysis parameters outside their bounds
	ErrInvalidConfig = errors.New("invalid analysis config")

	// ErrUpstream marks a failed fetch (auth, quote, chain); fatal to the run
	ErrUpstream = errors.New("upstream failure")

	// ErrNoSpotPrice marks a quote without a usable last or close price
	ErrNoSpotPrice = errors.New("no spot price")
)
