package entity

import "time"

// ProcessType is the kind of baggage claim
type ProcessType string

const (
	ProcessAHL ProcessType = "AHL" // delayed baggage
	ProcessDPR ProcessType = "DPR" // damaged baggage
	ProcessOHD ProcessType = "OHD" // on-hand baggage
)

// ProcessStatus is the lifecycle state of a claim
type ProcessStatus string

const (
	StatusOpen             ProcessStatus = "aberto"
	StatusUnderObservation ProcessStatus = "observação"
	StatusFinalized        ProcessStatus = "finalizado"
	StatusExpired          ProcessStatus = "vencido"
)

// Solution offered on a damaged-baggage claim
type Solution string

const (
	SolutionRepair  Solution = "Conserto"
	SolutionNewBag  Solution = "Mala nova"
	SolutionVoucher Solution = "Voucher"
	SolutionNone    Solution = "Não há tratativas"
)

// ProcessExpiry is how long a claim may stay open before it is expired
const ProcessExpiry = 5 * 24 * time.Hour

// ProcessWarning is when the near-expiry alert fires
const ProcessWarning = 4 * 24 * time.Hour

// Process is a lost-and-luggage claim (AHL/DPR/OHD)
type Process struct {
	Number      string
	Type        ProcessType
	Status      ProcessStatus
	Customer    string
	PNR         string
	Bag         string
	Damage      string
	Solution    Solution
	CreatedAt   time.Time
	FinalizedAt *time.Time
}

// IsActive reports whether the claim still counts as open
func (p Process) IsActive() bool {
	return p.Status == StatusOpen || p.Status == StatusUnderObservation
}

// Clone returns a deep copy of the process
func (p Process) Clone() Process {
	if p.FinalizedAt != nil {
		t := *p.FinalizedAt
		p.FinalizedAt = &t
	}
	return p
}

// ValidProcessType reports whether t is a known claim type
func ValidProcessType(t ProcessType) bool {
	switch t {
	case ProcessAHL, ProcessDPR, ProcessOHD:
		return true
	}
	return false
}

// ValidProcessStatus reports whether s is a known status
func ValidProcessStatus(s ProcessStatus) bool {
	switch s {
	case StatusOpen, StatusUnderObservation, StatusFinalized, StatusExpired:
		return true
	}
	return false
}

// ValidSolution reports whether s is an accepted DPR solution
func ValidSolution(s Solution) bool {
	switch s {
	case SolutionRepair, SolutionNewBag, SolutionVoucher, SolutionNone:
		return true
	}
	return false
}

// ProcessSummary counts active and expired claims
type ProcessSummary struct {
	Open    int
	Expired int
}
