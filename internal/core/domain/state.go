package domain

import "fmt"

// CampaignState is the closed set of lifecycle states of a campaign.
type CampaignState uint8

const (
	StateActive CampaignState = iota + 1
	StateSuccessful
	StateFailed
	StateWithdrawn
	StateCancelled
)

var stateNames = map[CampaignState]string{
	StateActive:     "active",
	StateSuccessful: "successful",
	StateFailed:     "failed",
	StateWithdrawn:  "withdrawn",
	StateCancelled:  "cancelled",
}

func (s CampaignState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// ParseCampaignState is the inverse of String.
func ParseCampaignState(name string) (CampaignState, error) {
	for s, n := range stateNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown campaign state %q", name)
}

// Refundable reports whether contributors may reclaim their pledges.
func (s CampaignState) Refundable() bool {
	return s == StateFailed || s == StateCancelled
}

// Settled reports whether the pledge phase is over, by verdict or cancellation.
func (s CampaignState) Settled() bool {
	return s != StateActive
}

func (s CampaignState) MarshalText() ([]byte, error) {
	if _, ok := stateNames[s]; !ok {
		return nil, fmt.Errorf("unknown campaign state %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *CampaignState) UnmarshalText(text []byte) error {
	parsed, err := ParseCampaignState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
