package model

import (
	"encoding/json"
	"time"
)

// Request represents one borrow request. QuantityRequested is fixed at
// submission; QuantityOutstanding shrinks as units come back, so the
// returned quantity is always QuantityRequested - QuantityOutstanding.
type Request struct {
	ID                  int64      `json:"id"`
	Username            string     `json:"username"`
	ItemID              int64      `json:"item_id"`
	ItemName            string     `json:"item_name"`
	ItemCategory        string     `json:"item_category"`
	QuantityRequested   int        `json:"quantity_requested"`
	QuantityOutstanding int        `json:"quantity_outstanding"`
	Purpose             string     `json:"purpose"`
	Status              string     `json:"status"`
	CreatedAt           time.Time  `json:"created_at"`
	ApprovedAt          *time.Time `json:"approved_at,omitempty"`
	Approver            string     `json:"approver,omitempty"`
	Comment             string     `json:"comment,omitempty"`
	ReturnedAt          *time.Time `json:"returned_at,omitempty"`
}

// Request statuses. Rejected and returned are terminal; a partially
// returned request accepts further returns until nothing is outstanding.
const (
	RequestStatusPending           = "pending"
	RequestStatusApproved          = "approved"
	RequestStatusRejected          = "rejected"
	RequestStatusReturned          = "returned"
	RequestStatusPartiallyReturned = "partially_returned"
)

// ValidRequestStatus reports whether s is a known request status.
func ValidRequestStatus(s string) bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected,
		RequestStatusReturned, RequestStatusPartiallyReturned:
		return true
	}
	return false
}

// ReturnedQuantity returns the cumulative units returned so far.
func (r *Request) ReturnedQuantity() int {
	return r.QuantityRequested - r.QuantityOutstanding
}

// MarshalJSON includes the derived returned_quantity field.
func (r Request) MarshalJSON() ([]byte, error) {
	type alias Request
	return json.Marshal(struct {
		alias
		ReturnedQuantity int `json:"returned_quantity"`
	}{
		alias:            alias(r),
		ReturnedQuantity: r.ReturnedQuantity(),
	})
}
