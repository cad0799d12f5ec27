package citylocator

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleCandidates = []Candidate{
	{Name: "Rio Verde", State: "GO", Offset: 3, Plan: PlanA},
	{Name: "São Paulo", State: "SP", Offset: 20, Plan: PlanA},
}

func TestFirstChooser(t *testing.T) {
	c, err := FirstChooser{}.Choose(context.Background(), sampleCandidates)
	require.NoError(t, err)
	assert.Equal(t, sampleCandidates[0], c)

	_, err = FirstChooser{}.Choose(context.Background(), nil)
	assert.Error(t, err)
}

func TestPromptResolver(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Candidate
	}{
		{name: "explicit choice", input: "2\n", want: sampleCandidates[1]},
		{name: "empty line takes default", input: "\n", want: sampleCandidates[0]},
		{name: "end of input takes default", input: "", want: sampleCandidates[0]},
		{name: "invalid answers are asked again", input: "9\nabc\n2\n", want: sampleCandidates[1]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			resolve := PromptResolver(strings.NewReader(tt.input), &out)
			got, err := resolve(context.Background(), sampleCandidates)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "1) Rio Verde - GO")
			assert.Contains(t, out.String(), "2) São Paulo - SP")
		})
	}
}

func TestRequest_ResolvedOnce(t *testing.T) {
	req := &Request{ctx: context.Background(), Candidates: sampleCandidates, reply: make(chan choice, 1)}
	req.Resolve(sampleCandidates[1])
	req.Resolve(sampleCandidates[0])
	req.Reject(errors.New("late"))

	got := <-req.reply
	assert.Equal(t, sampleCandidates[1], got.candidate)
	assert.NoError(t, got.err)
	assert.Equal(t, sampleCandidates[0], req.Default())
}

func TestDispatcher_RequestsChannel(t *testing.T) {
	d := NewDispatcher()
	go func() {
		req := <-d.Requests()
		req.Reject(errors.New("operator closed the dialog"))
	}()
	_, err := d.Choose(context.Background(), sampleCandidates)
	assert.EqualError(t, err, "operator closed the dialog")
}
