package pagination

import (
	"encoding/base64"
	"encoding/json"
)

type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size,default=50" validate:"gte=1,lte=250"` // Min 1, Max 250
}

// Cursor encodes the list position as an opaque token. Offset-based is enough
// for a catalog of this size; the token format stays swappable.
type Cursor struct {
	Offset int `json:"offset"`
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	HasMore       bool   `json:"has_more"`
}

func EncodeCursor(data Cursor) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func DecodeCursor(data string) (*Cursor, error) {
	if data == "" {
		return &Cursor{}, nil
	}
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}

	var cursor Cursor
	if err := json.Unmarshal(b, &cursor); err != nil {
		return nil, err
	}
	return &cursor, nil
}

// BuildPageInfo computes the follow-up token for an offset listing. total is
// the full number of rows matching the listing.
func BuildPageInfo(offset, returned int, total int64) *PageInfo {
	next := offset + returned
	if int64(next) >= total {
		return &PageInfo{HasMore: false}
	}
	token, err := EncodeCursor(Cursor{Offset: next})
	if err != nil {
		return &PageInfo{HasMore: false}
	}
	return &PageInfo{HasMore: true, NextPageToken: token}
}
