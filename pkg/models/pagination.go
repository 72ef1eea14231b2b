/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import "fmt"

const (
	DefaultPage     = 1
	DefaultLimit    = 20
	MaxLimit        = 100
	DefaultSortBy   = "createdAt"
	SortAscending   = "asc"
	SortDescending  = "desc"
	DefaultSortDesc = SortDescending
)

// ListParams controls filtering, sorting and pagination of device lists.
type ListParams struct {
	Page      int           `json:"page,omitempty"`
	Limit     int           `json:"limit,omitempty"`
	SortBy    string        `json:"sortBy,omitempty"`
	SortOrder string        `json:"sortOrder,omitempty"`
	Type      *DeviceType   `json:"type,omitempty"`
	Status    *DeviceStatus `json:"status,omitempty"`
	Search    *string       `json:"search,omitempty"`
}

// Normalize fills defaults and clamps the limit to MaxLimit.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}

	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}

	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}

	if p.SortOrder != SortAscending {
		p.SortOrder = DefaultSortDesc
	}

	return p
}

// Offset is the number of rows skipped before the current page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// CacheKey renders normalized params into a stable string.
func (p ListParams) CacheKey() string {
	typ, status, search := "", "", ""

	if p.Type != nil {
		typ = string(*p.Type)
	}

	if p.Status != nil {
		status = string(*p.Status)
	}

	if p.Search != nil {
		search = *p.Search
	}

	return fmt.Sprintf("p=%d&l=%d&sb=%s&so=%s&t=%s&s=%s&q=%s",
		p.Page, p.Limit, p.SortBy, p.SortOrder, typ, status, search)
}

// Pagination describes where a page sits in the full result set.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes TotalPages as ceil(total/limit).
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}

	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// DevicePage is one page of a device listing.
type DevicePage struct {
	Data       []*Device  `json:"data"`
	Pagination Pagination `json:"pagination"`
}
