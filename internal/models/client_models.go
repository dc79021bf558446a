package models

import "time"

// DateLayout is the calendar-day format used for client timestamps on the wire.
const DateLayout = "2006-01-02"

// Client represents one registered person/account. It is never rendered
// directly in HTTP responses; see ClientResponseBody.
type Client struct {
	ID           int64     `json:"id" db:"id"`
	FirstName    string    `json:"firstName" db:"first_name"`
	MiddleName   string    `json:"middleName" db:"middle_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	Email        string    `json:"email" db:"email"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"passwordHash" db:"password_hash"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"` // date only
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"` // date only
}

// Today returns the current calendar day at midnight UTC.
// Client timestamps are stored with day granularity.
func Today() time.Time {
	return DateOf(time.Now())
}

// DateOf truncates t to midnight UTC of the same calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ClientRequest is the payload for create, update and credential lookups.
// IsActive is accepted for compatibility but ignored: the flag only changes
// through the toggle endpoint.
type ClientRequest struct {
	FirstName  string `json:"firstName" validate:"notblank"`
	MiddleName string `json:"middleName" validate:"notblank"`
	LastName   string `json:"lastName" validate:"notblank"`
	Email      string `json:"email" validate:"notblank,email"`
	Username   string `json:"username" validate:"notblank"`
	Password   string `json:"password" validate:"notblank,min=6"`
	IsActive   *bool  `json:"isActive,omitempty"`
}

// ClientResponseBody is the public projection of a Client. The password hash
// is never part of it.
type ClientResponseBody struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	IsActive   bool   `json:"isActive"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// NewClientResponseBody projects c for a response.
func NewClientResponseBody(c *Client) *ClientResponseBody {
	return &ClientResponseBody{
		ID:         c.ID,
		FirstName:  c.FirstName,
		MiddleName: c.MiddleName,
		LastName:   c.LastName,
		Email:      c.Email,
		Username:   c.Username,
		IsActive:   c.IsActive,
		CreatedAt:  c.CreatedAt.Format(DateLayout),
		UpdatedAt:  c.UpdatedAt.Format(DateLayout),
	}
}

// ClientResponse is the envelope for single-client responses.
type ClientResponse struct {
	Body    *ClientResponseBody `json:"body,omitempty"`
	Message string              `json:"message"`
}

// ListClientResponse is the envelope for list responses.
type ListClientResponse struct {
	Body    []ClientResponseBody `json:"body,omitempty"`
	Message string               `json:"message"`
}

// ClientPage is one page of clients in id order.
type ClientPage struct {
	Clients []Client
	Total   int
	Page    int
	Size    int
}
