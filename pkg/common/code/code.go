package code

import (
	"fmt"
	"net/http"
)

// Code is a business error: an HTTP status, a stable numeric code and a
// human readable message. Wrapped storage errors travel along for logs
// but are not serialized to clients.
type Code struct {
	HTTPCode int    `json:"-"`
	Code     int    `json:"code"`
	Msg      string `json:"msg"`
	err      error
}

func New(httpCode, code int, msg string) *Code {
	return &Code{HTTPCode: httpCode, Code: code, Msg: msg}
}

func (c *Code) Error() string {
	if c.err != nil {
		return fmt.Sprintf("code: %d, msg: %s, err: %v", c.Code, c.Msg, c.err)
	}
	return fmt.Sprintf("code: %d, msg: %s", c.Code, c.Msg)
}

// WithMsg returns a copy carrying a more specific message.
func (c *Code) WithMsg(msg string) *Code {
	return &Code{HTTPCode: c.HTTPCode, Code: c.Code, Msg: msg, err: c.err}
}

// WithErr returns a copy wrapping the underlying cause.
func (c *Code) WithErr(err error) *Code {
	return &Code{HTTPCode: c.HTTPCode, Code: c.Code, Msg: c.Msg, err: err}
}

func (c *Code) Unwrap() error {
	return c.err
}

// Is compares by numeric code so WithMsg/WithErr copies still match
// their sentinel with errors.Is.
func (c *Code) Is(target error) bool {
	t, ok := target.(*Code)
	return ok && t.Code == c.Code
}

var (
	Success   = New(http.StatusOK, 0, "success")
	ParamErr  = New(http.StatusBadRequest, 10001, "invalid request param")
	UnLogin   = New(http.StatusUnauthorized, 10002, "user not logged in")
	Forbidden = New(http.StatusForbidden, 10003, "no access to this resource")

	RecordNotFound = New(http.StatusNotFound, 20001, "record not found")
	CreateDataErr  = New(http.StatusInternalServerError, 20002, "create data failed")
	QueryRecordErr = New(http.StatusInternalServerError, 20003, "query data failed")
	UpdateDataErr  = New(http.StatusInternalServerError, 20004, "update data failed")
	DeleteDataErr  = New(http.StatusInternalServerError, 20005, "delete data failed")
	ConflictErr    = New(http.StatusConflict, 20006, "conflicting concurrent update, retry the transaction")

	// order lifecycle engine
	ValidationErr      = New(http.StatusBadRequest, 30001, "validation failed")
	CannotConfirm      = New(http.StatusBadRequest, 30002, "order cannot be confirmed")
	InvalidTransition  = New(http.StatusBadRequest, 30003, "status transition not allowed")
	NotInTransaction   = New(http.StatusInternalServerError, 30004, "operation requires an enclosing transaction")
	OrderNotFound      = New(http.StatusNotFound, 30005, "order not found")
	GenRequestNotFound = New(http.StatusNotFound, 30006, "genrequest not found")
	SampleNotFound     = New(http.StatusNotFound, 30007, "sample not found")
	SpeciesCodeMissing = New(http.StatusBadRequest, 30008, "species has no genlab code")
	ReplicaExhausted   = New(http.StatusBadRequest, 30009, "replica suffix alphabet exhausted")
	IsolationBusy      = New(http.StatusConflict, 30010, "an isolation run is already in progress")
	SampleFrozen       = New(http.StatusBadRequest, 30011, "sample content is frozen after delivery")
)
