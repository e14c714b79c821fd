package region

import "errors"

// Region is a national paralympic committee area keyed by its 3-character NOC code.
type Region struct {
	NOC    string  `json:"NOC"`
	Region string  `json:"region"`
	Notes  *string `json:"notes"`
}

var (
	ErrNotFound     = errors.New("region not found")
	ErrDuplicateNOC = errors.New("region code already exists")
)

type CreateRegionRequest struct {
	NOC    string  `json:"NOC" binding:"required,len=3,uppercase"`
	Region string  `json:"region" binding:"required,min=2,max=120"`
	Notes  *string `json:"notes" binding:"omitempty,max=1000"`
}

// Partial update: nil fields stay untouched.
type UpdateRegionRequest struct {
	Region *string `json:"region" binding:"omitempty,min=2,max=120"`
	Notes  *string `json:"notes" binding:"omitempty,max=1000"`
}
