package domain

import "time"

// Principal is the authenticated identity attached to a request
type Principal struct {
	UserID   uint
	Username string
}

// DateRange is an inclusive window over delivery request time
type DateRange struct {
	Start time.Time
	End   time.Time
}

// MaxSearchPeriodDays is the widest window a delivery search may cover
const MaxSearchPeriodDays = 3

// ExceedsMaxPeriod reports whether the range is wider than MaxSearchPeriodDays.
// Exactly three days is allowed; anything longer is not.
func (r DateRange) ExceedsMaxPeriod() bool {
	return r.Start.AddDate(0, 0, MaxSearchPeriodDays).Before(r.End)
}

// Validate checks ordering and width of the range
func (r DateRange) Validate() error {
	verr := &ValidationError{}
	if r.Start.IsZero() {
		verr.Add("start_date", "조회 시작일은 필수입니다.")
	}
	if r.End.IsZero() {
		verr.Add("end_date", "조회 종료일은 필수입니다.")
	}
	if len(verr.Violations) > 0 {
		return verr
	}

	if r.Start.After(r.End) {
		verr.Add("start_date", "시작일은 종료일보다 이전이어야 합니다.")
	} else if r.ExceedsMaxPeriod() {
		verr.Add("end_date", "조회 기간은 최대 3일까지만 가능합니다.")
	}
	return verr.OrNil()
}
