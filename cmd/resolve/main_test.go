package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JoshCrouch/uq-program-planner/program"
	"github.com/JoshCrouch/uq-program-planner/services/courselookup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/course/CSSE1001" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":"CSSE1001","title":"Introduction to Software Engineering","units":2}`))
	}))
	defer server.Close()

	client := courselookup.NewClient(courselookup.Config{
		BaseURL:     server.URL,
		RetryConfig: &courselookup.RetryConfig{MaxRetries: 0},
	})
	input := []byte(`{"name":"BCompSc","code":"2451","year":2024,"units":48,"components":[
		{"id":"core","type":"section","title":"Core","minUnits":2,"maxUnits":4,"courseEntries":[
			{"type":"singular","code":"CSSE1001"},
			{"type":"option","optionOne":"CSSE1001","optionTwo":"MISSING1"}
		]}]}`)

	out, err := resolve(context.Background(), client, input)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  \"name\": \"BCompSc\"", "output is indented once")

	var doc program.ProgramDocument
	require.NoError(t, json.Unmarshal(out, &doc))
	entries := doc.Components[0].CourseEntries
	require.Len(t, entries, 2)
	assert.Equal(t, "Introduction to Software Engineering", entries[0].Title)
	assert.Equal(t, 2, entries[0].Units)
	assert.Equal(t, program.TypeCourseOption, entries[1].Type)
	assert.Equal(t, "MISSING1", entries[1].OptionTwo)
}

func TestResolve_UnknownComponent(t *testing.T) {
	lookup := program.CourseLookupFunc(func(context.Context, string) (program.CourseInfo, error) {
		return program.CourseInfo{}, nil
	})

	_, err := resolve(context.Background(), lookup, []byte(`{"name":"X","components":[{"id":"a","type":"thesis"}]}`))
	assert.ErrorIs(t, err, program.ErrUnregisteredType)
}
