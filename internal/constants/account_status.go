package constants

type AccountStatus string

const (
	StatusUnused   AccountStatus = "UNUSED"
	StatusPending  AccountStatus = "PENDING"
	StatusAssigned AccountStatus = "ASSIGNED"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case StatusUnused, StatusPending, StatusAssigned:
		return true
	}
	return false
}
