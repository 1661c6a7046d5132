package api

import (
	"fmt"
	"net/url"

	"github.com/oapi-codegen/runtime"
)

// BindDetectMealParams はクエリ文字列から DetectMealParams を組み立てます。
func BindDetectMealParams(query url.Values) (DetectMealParams, error) {
	var params DetectMealParams
	if err := runtime.BindQueryParameter("form", true, false, "mode", query, &params.Mode); err != nil {
		return params, fmt.Errorf("invalid format for parameter mode: %w", err)
	}
	return params, nil
}

// BindListDetectionsParams はクエリ文字列から ListDetectionsParams を組み立てます。
func BindListDetectionsParams(query url.Values) (ListDetectionsParams, error) {
	var params ListDetectionsParams
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &params.Limit); err != nil {
		return params, fmt.Errorf("invalid format for parameter limit: %w", err)
	}
	return params, nil
}
