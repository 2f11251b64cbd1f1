// Package openapi describes the survey HTTP surface and the remote questions
// payload as OpenAPI 3 documents built with kin-openapi. The questions schema
// doubles as the decode check applied to every fetched response body.
package openapi
