package cwmetrics

// FetchStatus is the state of the metrics request for a region
type FetchStatus string

const (
	FetchIdle      FetchStatus = "idle"
	FetchLoading   FetchStatus = "loading"
	FetchSucceeded FetchStatus = "succeeded"
	FetchFailed    FetchStatus = "failed"
)

// FetchState describes the last metrics request for a region. Reason is set only for FetchFailed
type FetchState struct {
	Status FetchStatus `json:"status"`
	Reason string      `json:"reason,omitempty"`
}

func idleState() FetchState {
	return FetchState{Status: FetchIdle}
}

func loadingState() FetchState {
	return FetchState{Status: FetchLoading}
}

func succeededState() FetchState {
	return FetchState{Status: FetchSucceeded}
}

func failedState(err error) FetchState {
	return FetchState{
		Status: FetchFailed,
		Reason: err.Error(),
	}
}
