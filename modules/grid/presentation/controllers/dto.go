package controllers

import "encoding/json"

type PatchCellRequest struct {
	Column string          `json:"column"`
	Value  json.RawMessage `json:"value"`
}
