package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	apierrors "fleetadmin/internal/errors"
	"fleetadmin/pkg/contracts/domain"
)

// parseListRequest reads the shared pagination and filter query parameters.
// Values are normalized later by the service layer; only syntax is rejected
// here.
func parseListRequest(r *http.Request) (domain.ListRequest, error) {
	q := r.URL.Query()
	req := domain.ListRequest{
		Status: q.Get("status"),
		Query:  q.Get("q"),
		Sort:   q.Get("sort"),
		Order:  q.Get("order"),
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return req, apierrors.ErrValidation("limit", "must be an integer")
		}
		req.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return req, apierrors.ErrValidation("offset", "must be an integer")
		}
		req.Offset = offset
	}
	if req.Order != "" && req.Order != "asc" && req.Order != "desc" {
		return req, apierrors.ErrValidation("order", "must be asc or desc")
	}

	return req, nil
}

// decodeJSON decodes a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apierrors.ErrValidation("body", "invalid JSON payload: "+err.Error())
	}
	return nil
}
