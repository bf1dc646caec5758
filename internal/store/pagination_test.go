package store

import "testing"

func TestPageRequestClamp(t *testing.T) {
	cases := []struct {
		name      string
		in        PageRequest
		wantPage  int
		wantLimit int
	}{
		{"defaults", PageRequest{}, 1, 12},
		{"negative page", PageRequest{Page: -3, Limit: 5}, 1, 5},
		{"over max limit", PageRequest{Page: 2, Limit: 500}, 2, 100},
		{"in range", PageRequest{Page: 4, Limit: 20}, 4, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.in
			p.Clamp(12, 100)
			if p.Page != tc.wantPage {
				t.Errorf("Page: got %d, want %d", p.Page, tc.wantPage)
			}
			if p.Limit != tc.wantLimit {
				t.Errorf("Limit: got %d, want %d", p.Limit, tc.wantLimit)
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	cases := []struct {
		name    string
		req     PageRequest
		total   int
		want    Pagination
	}{
		{
			name:  "middle page",
			req:   PageRequest{Page: 2, Limit: 10},
			total: 35,
			want:  Pagination{Page: 2, Limit: 10, Total: 35, TotalPages: 4, HasNext: true, HasPrev: true},
		},
		{
			name:  "first page",
			req:   PageRequest{Page: 1, Limit: 10},
			total: 35,
			want:  Pagination{Page: 1, Limit: 10, Total: 35, TotalPages: 4, HasNext: true, HasPrev: false},
		},
		{
			name:  "last page",
			req:   PageRequest{Page: 4, Limit: 10},
			total: 35,
			want:  Pagination{Page: 4, Limit: 10, Total: 35, TotalPages: 4, HasNext: false, HasPrev: true},
		},
		{
			name:  "empty result",
			req:   PageRequest{Page: 1, Limit: 10},
			total: 0,
			want:  Pagination{Page: 1, Limit: 10, Total: 0, TotalPages: 0, HasNext: false, HasPrev: false},
		},
		{
			name:  "exact boundary",
			req:   PageRequest{Page: 2, Limit: 10},
			total: 20,
			want:  Pagination{Page: 2, Limit: 10, Total: 20, TotalPages: 2, HasNext: false, HasPrev: true},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewPagination(tc.req, tc.total)
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
