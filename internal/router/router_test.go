package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/challasumanth64/assist-respond-ai/internal/ai"
	"github.com/challasumanth64/assist-respond-ai/internal/handler"
	"github.com/challasumanth64/assist-respond-ai/internal/logger"
	"github.com/challasumanth64/assist-respond-ai/internal/mailbox"
	"github.com/challasumanth64/assist-respond-ai/internal/mailer"
	"github.com/challasumanth64/assist-respond-ai/internal/repository/memory"
	"github.com/challasumanth64/assist-respond-ai/internal/service"
	"github.com/challasumanth64/assist-respond-ai/internal/sse"
)

type testServer struct {
	echo   *echo.Echo
	mailer *mailer.MockMailer
	events *sse.SSEManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	appLogger := logger.Nop()

	emails := memory.NewInMemoryEmailRepository()
	responses := memory.NewInMemoryResponseRepository()
	analytics := service.NewAnalyticsService(memory.NewInMemoryAnalyticsRepository())
	sseManager := sse.NewSSEManager(appLogger)
	t.Cleanup(sseManager.Close)
	mockMailer := mailer.NewMockMailer()

	emailService := service.NewEmailService(emails, responses, analytics, ai.NewMockAIClient(), mailbox.NewDemoMailbox(), sseManager, 10, appLogger)
	responseService := service.NewResponseService(responses, emails, analytics, mockMailer, sseManager, appLogger)
	kbService := service.NewKnowledgeBaseService(memory.NewInMemoryKnowledgeBaseRepository(), appLogger)

	e := echo.New()
	SetupRoutes(e, Handlers{
		Email:         handler.NewEmailHandler(emailService, appLogger),
		Response:      handler.NewResponseHandler(responseService, appLogger),
		Analytics:     handler.NewAnalyticsHandler(analytics, appLogger),
		KnowledgeBase: handler.NewKnowledgeBaseHandler(kbService, appLogger),
		Events:        handler.NewEventsHandler(sseManager, appLogger),
	})
	return &testServer{echo: e, mailer: mockMailer, events: sseManager}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestProcessAndSendFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/emails/process",
		`{"sender_email":"customer@example.com","subject":"Support needed","body":"My invoice is wrong","user_id":"owner-1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var processed struct {
		Processed bool `json:"processed"`
		Email     struct {
			ID string `json:"id"`
		} `json:"email"`
		Response struct {
			ID string `json:"id"`
		} `json:"response"`
	}
	decode(t, rec, &processed)
	assert.True(t, processed.Processed)
	require.NotEmpty(t, processed.Response.ID)

	rec = s.do(t, http.MethodPut, "/api/responses/"+processed.Response.ID+"?user_id=owner-1", `{"edited_response":"Fixed your invoice."}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/responses/send", `{"response_id":"`+processed.Response.ID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var sent struct {
		Success  bool   `json:"success"`
		Message  string `json:"message"`
		Response struct {
			Sent bool `json:"sent"`
		} `json:"response"`
	}
	decode(t, rec, &sent)
	assert.True(t, sent.Success)
	assert.Equal(t, "Response sent successfully", sent.Message)
	assert.True(t, sent.Response.Sent)
	require.Len(t, s.mailer.SentMessages(), 1)
	assert.Equal(t, "Fixed your invoice.", s.mailer.SentMessages()[0].Body)

	rec = s.do(t, http.MethodPost, "/api/responses/send", `{"response_id":"`+processed.Response.ID+`"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/analytics/today?user_id=owner-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var today struct {
		Total    int `json:"total_emails"`
		Resolved int `json:"resolved_emails"`
		Pending  int `json:"pending_emails"`
	}
	decode(t, rec, &today)
	assert.Equal(t, 1, today.Total)
	assert.Equal(t, 1, today.Resolved)
	assert.Equal(t, 0, today.Pending)
}

func TestProcessWithoutKeywords(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/emails/process",
		`{"sender_email":"friend@example.com","subject":"Lunch","body":"noon?","user_id":"owner-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"processed":false,"reason":"No support keywords found"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/emails?user_id=owner-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var emails []interface{}
	decode(t, rec, &emails)
	assert.Empty(t, emails)
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/emails/process", `{"subject":"help"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/responses/send", `{"response_id":"nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"response not found"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/emails", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/emails/sync", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSyncEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/emails/sync", `{"user_id":"owner-1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true,"message":"Fetched and processed 3 new emails","emailCount":3}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/emails/sync", `{"user_id":"owner-1"}`)
	assert.JSONEq(t, `{"success":true,"message":"Fetched and processed 0 new emails","emailCount":0}`, rec.Body.String())
}

func TestKnowledgeBaseEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/knowledge-base?user_id=owner-1", `{"title":"Refunds","content":"30 days","keywords":["refund"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var entry struct {
		ID string `json:"id"`
	}
	decode(t, rec, &entry)

	rec = s.do(t, http.MethodGet, "/api/knowledge-base/"+entry.ID+"?user_id=owner-2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/knowledge-base/"+entry.ID+"?user_id=owner-1", `{"title":"Refund policy","content":"14 days"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/knowledge-base?user_id=owner-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Refund policy")

	rec = s.do(t, http.MethodDelete, "/api/knowledge-base/"+entry.ID+"?user_id=owner-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/knowledge-base?user_id=owner-1", `{"content":"no title"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/emails/process", nil)
	req.Header.Set(echo.HeaderOrigin, "https://dashboard.example.com")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	req.Header.Set(echo.HeaderAccessControlRequestHeaders, "content-type, apikey")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Contains(t, strings.ToLower(rec.Header().Get(echo.HeaderAccessControlAllowHeaders)), "apikey")
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_request_duration_seconds")
}

func TestEventStream(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/events?user_id=owner-1", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		s.echo.ServeHTTP(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return s.events.HasUserConnection("owner-1")
	}, time.Second, 10*time.Millisecond)

	s.events.BroadcastToUser("owner-1", service.EventSyncSummary, map[string]int{"emailCount": 2})
	s.events.BroadcastToUser("owner-2", service.EventSyncSummary, map[string]int{"emailCount": 9})

	// the hub buffers the event, give the handler a moment to write it
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	assert.Equal(t, "text/event-stream", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, body, `"type":"connection"`)
	assert.Contains(t, body, `"type":"sync_summary"`)
	assert.Contains(t, body, `"emailCount":2`)
	assert.NotContains(t, body, `"emailCount":9`)
	assert.False(t, s.events.HasUserConnection("owner-1"))
}
