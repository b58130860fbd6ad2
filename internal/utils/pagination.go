package utils

import (
	"net/url"
	"strconv"
)

// Links holds the neighbouring pages of a search result. Empty when there is no such page.
type Links struct {
	Next string `json:"next,omitempty"`
	Prev string `json:"prev,omitempty"`
}

// BuildPaginationURL returns baseURL with offset and limit replaced and every other query parameter kept.
func BuildPaginationURL(baseURL string, offset, limit int, params url.Values) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	for key, values := range params {
		if key != "offset" && key != "limit" {
			for _, value := range values {
				q.Add(key, value)
			}
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// PageLinks computes next/prev links for a page of size limit starting at offset out of total records.
func PageLinks(path string, offset, limit, total int, params url.Values) Links {
	var links Links
	if offset+limit < total {
		links.Next = BuildPaginationURL(path, offset+limit, limit, params)
	}
	if offset > 0 {
		prev := offset - limit
		if prev < 0 {
			prev = 0
		}
		links.Prev = BuildPaginationURL(path, prev, limit, params)
	}
	return links
}
