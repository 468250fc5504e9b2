package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sdlcassist/internal/llm"
	"sdlcassist/internal/repair"
	"sdlcassist/internal/schema"
	"sdlcassist/internal/validate"
)

// scriptClient replays a fixed sequence of outputs and errors, one per call.
type scriptClient struct {
	outs  []json.RawMessage
	errs  []error
	calls int
}

func (s *scriptClient) Name() string { return "script" }
func (s *scriptClient) Close() error { return nil }

func (s *scriptClient) GenerateJSON(ctx context.Context, system string, payload any) (json.RawMessage, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.outs) {
		return s.outs[i], nil
	}
	return nil, errors.New("script exhausted")
}

const goodRiskBody = `{
	"summary": "one risk",
	"risks": [{"category":"Reliability","description":"backlog","likelihood":2,"impact":3,"mitigation":"add DLQ"}]
}`

func fastDispatcher(c llm.Client) *Dispatcher {
	d := New(c, nil)
	d.BaseBackoff = time.Millisecond
	d.MaxBackoff = 2 * time.Millisecond
	return d
}

func TestExecute_Success(t *testing.T) {
	c := &scriptClient{outs: []json.RawMessage{json.RawMessage(goodRiskBody)}}
	d := fastDispatcher(c)

	resp, err := d.Execute(context.Background(), &schema.RiskRequest{Design: "queue pipeline"})
	require.NoError(t, err)
	require.Equal(t, 1, c.calls)

	typed := resp.(*schema.RiskResponse)
	require.Len(t, typed.Risks, 1)
	require.Equal(t, 6, typed.Risks[0].Score)
	require.NotEmpty(t, typed.TraceID)
	require.NotEmpty(t, typed.GeneratedAt)
}

func TestExecute_RetriesMalformedOnce(t *testing.T) {
	c := &scriptClient{outs: []json.RawMessage{
		json.RawMessage("sorry, I cannot comply"),
		json.RawMessage(goodRiskBody),
	}}
	d := fastDispatcher(c)

	resp, err := d.Execute(context.Background(), &schema.RiskRequest{Design: "d"})
	require.NoError(t, err)
	require.Equal(t, 2, c.calls)
	require.IsType(t, &schema.RiskResponse{}, resp)
}

func TestExecute_ExhaustionPropagatesLastError(t *testing.T) {
	c := &scriptClient{outs: []json.RawMessage{
		json.RawMessage("still not json"),
		json.RawMessage("and again not json"),
	}}
	d := fastDispatcher(c)

	_, err := d.Execute(context.Background(), &schema.RiskRequest{Design: "d"})
	require.ErrorIs(t, err, repair.ErrMalformedOutput)
	require.Equal(t, 2, c.calls)
}

func TestExecute_RetriesUpstreamError(t *testing.T) {
	c := &scriptClient{
		errs: []error{&llm.UpstreamError{Err: errors.New("connection reset")}},
		outs: []json.RawMessage{nil, json.RawMessage(goodRiskBody)},
	}
	d := fastDispatcher(c)

	_, err := d.Execute(context.Background(), &schema.RiskRequest{Design: "d"})
	require.NoError(t, err)
	require.Equal(t, 2, c.calls)
}

func TestExecute_RetriesSchemaViolation(t *testing.T) {
	// Parseable JSON missing a required field fails validation, which is
	// retryable like any other one-shot model misformatting.
	c := &scriptClient{outs: []json.RawMessage{
		json.RawMessage(`{"risks": []}`),
		json.RawMessage(goodRiskBody),
	}}
	d := fastDispatcher(c)

	_, err := d.Execute(context.Background(), &schema.RiskRequest{Design: "d"})
	require.NoError(t, err)
	require.Equal(t, 2, c.calls)
}

func TestExecute_SchemaViolationExhaustionNamesField(t *testing.T) {
	c := &scriptClient{outs: []json.RawMessage{
		json.RawMessage(`{"risks": []}`),
		json.RawMessage(`{"risks": []}`),
	}}
	d := fastDispatcher(c)

	_, err := d.Execute(context.Background(), &schema.RiskRequest{Design: "d"})
	var sv *validate.SchemaViolationError
	require.ErrorAs(t, err, &sv)
	require.Equal(t, "summary", sv.Field)
}

func TestExecute_InvalidRequestNoCall(t *testing.T) {
	c := &scriptClient{}
	d := fastDispatcher(c)

	_, err := d.Execute(context.Background(), &schema.RiskRequest{})
	var ve *schema.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, 0, c.calls)
}

func TestExecute_HonorsContextCancellation(t *testing.T) {
	c := &scriptClient{outs: []json.RawMessage{
		json.RawMessage("not json"),
		json.RawMessage(goodRiskBody),
	}}
	d := New(c, nil)
	d.BaseBackoff = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Execute(ctx, &schema.RiskRequest{Design: "d"})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, c.calls)
}

func TestExecute_StampsCallerTraceID(t *testing.T) {
	c := &scriptClient{outs: []json.RawMessage{json.RawMessage(goodRiskBody)}}
	d := fastDispatcher(c)

	ctx := WithTraceID(context.Background(), "caller-trace")
	resp, err := d.Execute(ctx, &schema.RiskRequest{Design: "d"})
	require.NoError(t, err)
	require.Equal(t, "caller-trace", resp.(*schema.RiskResponse).TraceID)
}

func TestExecute_FreshTraceIDsWithoutCaller(t *testing.T) {
	c := &scriptClient{outs: []json.RawMessage{
		json.RawMessage(goodRiskBody),
		json.RawMessage(goodRiskBody),
	}}
	d := fastDispatcher(c)

	a, err := d.Execute(context.Background(), &schema.RiskRequest{Design: "d"})
	require.NoError(t, err)
	b, err := d.Execute(context.Background(), &schema.RiskRequest{Design: "d"})
	require.NoError(t, err)
	require.NotEqual(t, a.(*schema.RiskResponse).TraceID, b.(*schema.RiskResponse).TraceID)
}

func TestExecute_EveryKindEndToEnd(t *testing.T) {
	d := fastDispatcher(llm.NewFakeClient())

	reqs := []schema.Request{
		&schema.TradeoffRequest{OptionA: "PostgreSQL", OptionB: "DynamoDB", Criteria: []string{"cost", "latency"}},
		&schema.ReviewRequest{Document: "Design doc body"},
		&schema.RiskRequest{Design: "Queue-based ingestion"},
		&schema.TestCaseRequest{UserStory: "As a user I reset my password", Count: 2},
		&schema.DesignRequest{Problem: "Serve spiky traffic"},
		&schema.TechStackRequest{Design: "3-tier web app"},
		&schema.ComplianceRequest{Code: "x = 1", Language: "python"},
		&schema.DebugRequest{Code: "m[\"k\"] = 1"},
	}
	for _, req := range reqs {
		resp, err := d.Execute(context.Background(), req)
		require.NoError(t, err, "kind %s", req.Kind())
		require.NotNil(t, resp, "kind %s", req.Kind())
	}
}

func TestExecute_FakeClientNormalizationVisible(t *testing.T) {
	d := fastDispatcher(llm.NewFakeClient())

	resp, err := d.Execute(context.Background(), &schema.TestCaseRequest{UserStory: "story", Count: 2})
	require.NoError(t, err)
	typed := resp.(*schema.TestCaseResponse)
	require.Len(t, typed.Cases, 2)
	require.Equal(t, "TC-001", typed.Cases[0].ID)
	require.Equal(t, "Medium", typed.Cases[0].Priority)
	require.Equal(t, "Positive", typed.Cases[0].Type)

	resp, err = d.Execute(context.Background(), &schema.DesignRequest{Problem: "p"})
	require.NoError(t, err)
	design := resp.(*schema.DesignResponse)
	require.NotEmpty(t, design.Options)
	for _, opt := range design.Options {
		require.LessOrEqual(t, len(opt.KeyComponents), 5)
		require.LessOrEqual(t, len(opt.Pros), 3)
		require.LessOrEqual(t, len(opt.Cons), 3)
	}
}
