// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

// Package validation validates API request parameters with
// go-playground/validator v10.
//
// A singleton validator caches struct metadata and is safe for concurrent
// use. Field names in messages come from the `query` or `json` tag so
// clients see the parameter they sent:
//
//	type topRequest struct {
//	    Limit int `query:"limit" validate:"gte=1,lte=1000"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// Custom tags:
//   - targetref: a like target type or id, non-blank and free of control
//     characters
//
// ToAPIError produces the VALIDATION_ERROR shape used by every endpoint:
//
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "limit must be less than or equal to 1000",
//	    "details": {"field": "limit", "tag": "lte", "value": 5000}
//	}
package validation
