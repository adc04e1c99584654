package model

import "errors"

// ErrMalformedArticle is returned for articles missing required identity fields.
// Callers skip such articles instead of aborting the run.
var ErrMalformedArticle = errors.New("malformed article")
