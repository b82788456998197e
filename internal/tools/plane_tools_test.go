package tools

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/plane-mcp/internal/journal"
	"github.com/HendryAvila/plane-mcp/internal/plane"
	"github.com/HendryAvila/plane-mcp/internal/projects"
	"github.com/HendryAvila/plane-mcp/internal/tracker"
)

const (
	assigneeUUID = "5b8e1f8a-2f0c-4d55-9e3e-1c2b3a4d5e6f"
	issuesPath   = "/workspaces/ws/projects/p-sbs/issues/"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	if args != nil {
		req.Params.Arguments = args
	}
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func mustNotError(t *testing.T, r *mcp.CallToolResult, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected Go error: %v", err)
	}
	if r.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(r))
	}
}

// mustBeToolError asserts the Handle call returns a tool error (not a Go error).
func mustBeToolError(t *testing.T, r *mcp.CallToolResult, err error, wantSubstr string) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected Go error: %v", err)
	}
	if !r.IsError {
		t.Fatalf("expected tool error containing %q, got success: %s", wantSubstr, resultText(r))
	}
	if wantSubstr != "" && !strings.Contains(resultText(r), wantSubstr) {
		t.Errorf("error text %q does not contain %q", resultText(r), wantSubstr)
	}
}

func decode(t *testing.T, r *mcp.CallToolResult, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(resultText(r)), v); err != nil {
		t.Fatalf("result is not JSON: %v\n%s", err, resultText(r))
	}
}

// planeCall is one request seen by the fake Plane server.
type planeCall struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

// fakePlane serves a tiny in-memory SBS project: issues 1 (u1, Todo) and
// 2 (u2, unknown state X9).
type fakePlane struct {
	mu    sync.Mutex
	calls []planeCall
}

func (f *fakePlane) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	call := planeCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &call.Body)
	}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	reply := func(status int, body string) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == issuesPath:
		reply(200, `{"results":[
			{"id":"u1","sequence_id":1,"name":"First","priority":"high","state":"T1","assignees":[],"labels":[]},
			{"id":"u2","sequence_id":2,"name":"Second","priority":"none","state":"X9","assignees":[],"labels":[]}
		]}`)
	case r.Method == http.MethodPost && r.URL.Path == issuesPath:
		reply(201, `{"id":"u42","sequence_id":42}`)
	case r.Method == http.MethodGet && r.URL.Path == issuesPath+"u1/":
		reply(200, `{"id":"u1","sequence_id":1,"name":"First","priority":"high","state":"T1","start_date":null}`)
	case r.Method == http.MethodGet && r.URL.Path == issuesPath+"u2/":
		reply(200, `{"id":"u2","sequence_id":2,"name":"Second","state":"X9"}`)
	case r.Method == http.MethodPatch:
		reply(200, `{}`)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/comments/"):
		reply(200, `[{"id":"c1","comment_html":"<p>hello</p>","actor":"a1"}]`)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/comments/"):
		reply(201, `{"id":"c2"}`)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/links/"):
		reply(200, `[{"id":"l1","title":"Monday","url":"https://monday.test/1","updated_at":"t"}]`)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/links/"):
		reply(201, `{"id":"l2","title":"Monday #2","url":"https://monday.test/2","created_at":"t0","updated_at":"t0","created_by":"me"}`)
	default:
		reply(404, `{"detail":"Not found."}`)
	}
}

func (f *fakePlane) last() planeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return planeCall{}
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakePlane) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testRegistry(t *testing.T) *projects.Registry {
	t.Helper()
	r, err := projects.New([]projects.Project{{
		Code: "SBS",
		ID:   "p-sbs",
		Name: "soundboxstore.com",
		States: []projects.State{
			{Name: "Todo", ID: "T1"},
			{Name: "Done", ID: "D1"},
		},
	}})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return r
}

// newTestService wires a tracker.Service to a fake Plane server.
func newTestService(t *testing.T, apiKey string) (*tracker.Service, *fakePlane) {
	t.Helper()
	fp := &fakePlane{}
	srv := httptest.NewServer(fp)
	t.Cleanup(srv.Close)

	client := plane.NewClient(plane.Config{BaseURL: srv.URL, Workspace: "ws", APIKey: apiKey})
	return tracker.NewService(testRegistry(t), client), fp
}

// recordingObserver captures activity notifications.
type recordingObserver struct {
	got []Activity
}

func (o *recordingObserver) OnToolCall(a Activity) { o.got = append(o.got, a) }

// ─── plane_list_issues ───────────────────────────────────────────────────────

func TestListIssuesTool_Definition(t *testing.T) {
	tool := NewListIssuesTool(nil, []string{"SBS", "MOB"})
	def := tool.Definition()

	if def.Name != "plane_list_issues" {
		t.Errorf("tool name = %q, want plane_list_issues", def.Name)
	}
	if len(def.InputSchema.Required) != 1 || def.InputSchema.Required[0] != "project" {
		t.Errorf("required = %v, want [project]", def.InputSchema.Required)
	}
	if !strings.Contains(def.Description, "ticket IDs") {
		t.Errorf("description should mention ticket IDs: %q", def.Description)
	}
}

func TestListIssuesTool_TranslatesStateFilter(t *testing.T) {
	svc, fp := newTestService(t, "key")
	tool := NewListIssuesTool(svc, []string{"SBS"})

	res, err := tool.Handle(t.Context(), makeReq(map[string]interface{}{
		"project":  "SBS",
		"state":    "Done",
		"priority": "high",
		"limit":    10,
	}))
	mustNotError(t, res, err)

	if got := fp.last().Query; got != "per_page=10&priority=high&state=D1" {
		t.Errorf("query = %q", got)
	}

	var out tracker.ListIssuesResult
	decode(t, res, &out)
	if out.Total != 2 || out.Project != "SBS" {
		t.Fatalf("unexpected result: %+v", out)
	}
	if out.Issues[0].TicketID != "SBS-1" || out.Issues[0].State != "Todo" {
		t.Errorf("first issue = %+v", out.Issues[0])
	}
	if out.Issues[1].State != "X9" || out.Issues[1].StateID != "X9" {
		t.Errorf("unknown state should fall back to its ID, got %+v", out.Issues[1])
	}
}

func TestListIssuesTool_DefaultLimit(t *testing.T) {
	svc, fp := newTestService(t, "key")
	tool := NewListIssuesTool(svc, []string{"SBS"})

	res, err := tool.Handle(t.Context(), makeReq(map[string]interface{}{"project": "SBS"}))
	mustNotError(t, res, err)
	if got := fp.last().Query; got != "per_page=50" {
		t.Errorf("query = %q, want per_page=50", got)
	}
}

func TestListIssuesTool_InvalidStateMakesNoRequest(t *testing.T) {
	svc, fp := newTestService(t, "key")
	tool := NewListIssuesTool(svc, []string{"SBS"})

	res, err := tool.Handle(t.Context(), makeReq(map[string]interface{}{"project": "SBS", "state": "Shipped"}))
	mustBeToolError(t, res, err, "Validation Error: invalid state \"Shipped\" for project SBS. Valid states: Todo, Done")
	if fp.count() != 0 {
		t.Errorf("expected no backend calls, got %d", fp.count())
	}
}

func TestListIssuesTool_InputErrors(t *testing.T) {
	svc, _ := newTestService(t, "key")
	tool := NewListIssuesTool(svc, []string{"SBS"})

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"no arguments", nil, "Invalid input: arguments are required"},
		{"missing project", map[string]interface{}{}, `"field": "project"`},
		{"bad priority", map[string]interface{}{"project": "SBS", "priority": "critical"}, `"rule": "oneof"`},
		{"bad limit", map[string]interface{}{"project": "SBS", "limit": -1}, `"field": "limit"`},
		{"wrong type", map[string]interface{}{"project": 12}, `"rule": "type"`},
		{"unknown project", map[string]interface{}{"project": "NOPE"}, `Validation Error: Unknown project "NOPE"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tool.Handle(t.Context(), makeReq(tt.args))
			mustBeToolError(t, res, err, tt.want)
		})
	}
}

// ─── plane_get_issue ─────────────────────────────────────────────────────────

func TestGetIssueTool(t *testing.T) {
	svc, _ := newTestService(t, "key")
	tool := NewGetIssueTool(svc)

	res, err := tool.Handle(t.Context(), makeReq(map[string]interface{}{"ticket_id": "SBS-1"}))
	mustNotError(t, res, err)

	var got tracker.DisplayIssue
	decode(t, res, &got)
	if got.TicketID != "SBS-1" || got.ID != "u1" || got.State != "Todo" || got.StateID != "T1" {
		t.Errorf("unexpected issue: %+v", got)
	}
	if !strings.Contains(resultText(res), `"start_date": null`) {
		t.Errorf("null dates should be kept: %s", resultText(res))
	}
}

func TestGetIssueTool_Errors(t *testing.T) {
	svc, fp := newTestService(t, "key")
	tool := NewGetIssueTool(svc)

	res, err := tool.Handle(t.Context(), makeReq(map[string]interface{}{"ticket_id": "SBS-999"}))
	mustBeToolError(t, res, err, "Not Found: Ticket SBS-999 not found")

	before := fp.count()
	res, err = tool.Handle(t.Context(), makeReq(map[string]interface{}{"ticket_id": "sbs-1"}))
	mustBeToolError(t, res, err, "Validation Error: Invalid ticket ID format: sbs-1")
	if fp.count() != before {
		t.Error("a malformed ticket must not reach the backend")
	}

	res, err = tool.Handle(t.Context(), makeReq(map[string]interface{}{}))
	mustBeToolError(t, res, err, `"field": "ticket_id"`)
}

func TestGetIssueTool_MissingAPIKey(t *testing.T) {
	svc, fp := newTestService(t, "")
	tool := NewGetIssueTool(svc)

	res, err := tool.Handle(t.Context(), makeReq(map[string]interface{}{"ticket_id": "SBS-1"}))
	mustBeToolError(t, res, err, "Authentication Failed: PLANE_API_KEY")
	if fp.count() != 0 {
		t.Error("no request should be sent without an API key")
	}
}

// ─── plane_create_issue ──────────────────────────────────────────────────────

func TestCreateIssueTool_Defaults(t *testing.T) {
	svc, fp := newTestService(t, "key")
	obs := &recordingObserver{}
	tool := NewCreateIssueTool(svc, []string{"SBS"}, obs)

	res, err := tool.Handle(t.Context(), makeReq(map[string]interface{}{
		"project":   "SBS",
		"name":      "Checkout broken",
		"assignees": []interface{}{assigneeUUID},
	}))
	mustNotError(t, res, err)

	body := fp.last().Body
	if body["state"] != "T1" || body["priority"] != "none" || body["name"] != "Checkout broken" {
		t.Errorf("unexpected create body: %v", body)
	}
	if _, ok := body["description_html"]; ok {
		t.Error("empty optional fields must not be sent")
	}

	var out tracker.CreateIssueResult
	decode(t, res, &out)
	if out.Status != "done" || out.TicketID != "SBS-42" {
		t.Errorf("unexpected result: %+v", out)
	}

	if len(obs.got) != 1 || obs.got[0].TicketID != "SBS-42" || obs.got[0].Err != nil {
		t.Errorf("observer not notified correctly: %+v", obs.got)
	}
}

func TestCreateIssueTool_InputErrors(t *testing.T) {
	svc, fp := newTestService(t, "key")
	tool := NewCreateIssueTool(svc, []string{"SBS"}, nil)

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"empty name", map[string]interface{}{"project": "SBS", "name": ""}, `"field": "name"`},
		{"bad assignee", map[string]interface{}{"project": "SBS", "name": "x", "assignees": []interface{}{"bob"}}, `"field": "assignees[0]"`},
		{"bad date", map[string]interface{}{"project": "SBS", "name": "x", "start_date": "01/02/2025"}, `"rule": "plane_date"`},
		{"bad parent", map[string]interface{}{"project": "SBS", "name": "x", "parent": "SBS-1"}, `"field": "parent"`},
		{"unknown state", map[string]interface{}{"project": "SBS", "name": "x", "state": "Review"}, "Valid states: Todo, Done"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tool.Handle(t.Context(), makeReq(tt.args))
			mustBeToolError(t, res, err, tt.want)
		})
	}
	if fp.count() != 0 {
		t.Errorf("no request should reach the backend, got %d", fp.count())
	}
}

// ─── plane_update_issue ──────────────────────────────────────────────────────

func TestUpdateIssueTool_PatchesOnlyGivenFields(t *testing.T) {
	svc, fp := newTestService(t, "key")
	obs := &recordingObserver{}
	tool := NewUpdateIssueTool(svc, obs)

	res, err := tool.Handle(t.Context(), makeReq(map[string]interface{}{
		"ticket_id":   "SBS-2",
		"state":       "Done",
		"start_date":  nil,
		"target_date": "2025-06-30",
	}))
	mustNotError(t, res, err)

	last := fp.last()
	if last.Method != http.MethodPatch || last.Path != issuesPath+"u2/" {
		t.Fatalf("unexpected call: %+v", last)
	}
	want := map[string]any{"state": "D1", "start_date": nil, "target_date": "2025-06-30"}
	if len(last.Body) != len(want) {
		t.Fatalf("patch body = %v, want %v", last.Body, want)
	}
	for k, v := range want {
		got, ok := last.Body[k]
		if !ok || got != v {
			t.Errorf("patch[%s] = %v (present %v), want %v", k, got, ok, v)
		}
	}

	if !strings.Contains(resultText(res), `"status": "done"`) {
		t.Errorf("unexpected result: %s", resultText(res))
	}
	if len(obs.got) != 1 || obs.got[0].Detail != "start_date, state, target_date" {
		t.Errorf("observer detail = %+v", obs.got)
	}
}

func TestUpdateIssueTool_Errors(t *testing.T) {
	svc, _ := newTestService(t, "key")
	obs := &recordingObserver{}
	tool := NewUpdateIssueTool(svc, obs)

	res, err := tool.Handle(t.Context(), makeReq(map[string]interface{}{"ticket_id": "SBS-1", "target_date": "tomorrow"}))
	mustBeToolError(t, res, err, `"field": "target_date"`)

	res, err = tool.Handle(t.Context(), makeReq(map[string]interface{}{"ticket_id": "SBS-1", "state": "Nope"}))
	mustBeToolError(t, res, err, "Validation Error: invalid state")

	if len(obs.got) != 1 || obs.got[0].Err == nil {
		t.Errorf("failed update should still be observed: %+v", obs.got)
	}
}

// ─── plane_delete_issue ──────────────────────────────────────────────────────

func TestDeleteIssueTool(t *testing.T) {
	svc, fp := newTestService(t, "key")
	tool := NewDeleteIssueTool(svc, nil)

	res, err := tool.Handle(t.Context(), makeReq(map[string]interface{}{"ticket_id": "SBS-1"}))
	mustNotError(t, res, err)

	if last := fp.last(); last.Method != http.MethodDelete || last.Path != issuesPath+"u1/" {
		t.Errorf("unexpected call: %+v", last)
	}
	var out tracker.DeleteIssueResult
	decode(t, res, &out)
	if !out.Success || out.TicketID != "SBS-1" {
		t.Errorf("unexpected result: %+v", out)
	}
}

// ─── comments & links ────────────────────────────────────────────────────────

func TestCommentTools(t *testing.T) {
	svc, fp := newTestService(t, "key")

	res, err := NewListCommentsTool(svc).Handle(t.Context(), makeReq(map[string]interface{}{"ticket_id": "SBS-1"}))
	mustNotError(t, res, err)
	var list tracker.CommentsResult
	decode(t, res, &list)
	if list.TicketID != "SBS-1" || list.Total != 1 || list.Comments[0].Actor != "a1" {
		t.Errorf("unexpected comments: %+v", list)
	}

	add := NewAddCommentTool(svc, nil)
	res, err = add.Handle(t.Context(), makeReq(map[string]interface{}{"ticket_id": "SBS-1", "comment_html": "<p>done</p>"}))
	mustNotError(t, res, err)
	if fp.last().Body["comment_html"] != "<p>done</p>" {
		t.Errorf("unexpected comment body: %v", fp.last().Body)
	}

	res, err = add.Handle(t.Context(), makeReq(map[string]interface{}{"ticket_id": "SBS-1", "comment_html": ""}))
	mustBeToolError(t, res, err, `"field": "comment_html"`)
}

func TestLinkTools(t *testing.T) {
	svc, _ := newTestService(t, "key")

	res, err := NewListLinksTool(svc).Handle(t.Context(), makeReq(map[string]interface{}{"ticket_id": "SBS-1"}))
	mustNotError(t, res, err)
	var list tracker.LinksResult
	decode(t, res, &list)
	if list.Total != 1 || list.Links[0].Title != "Monday" {
		t.Errorf("unexpected links: %+v", list)
	}

	add := NewAddLinkTool(svc, nil)
	res, err = add.Handle(t.Context(), makeReq(map[string]interface{}{
		"ticket_id": "SBS-1",
		"title":     "Monday #2",
		"url":       "https://monday.test/2",
	}))
	mustNotError(t, res, err)
	if strings.Contains(resultText(res), "updated_at") {
		t.Errorf("created link should not report updated_at: %s", resultText(res))
	}
	var created tracker.AddLinkResult
	decode(t, res, &created)
	if created.TicketID != "SBS-1" || created.Link.ID != "l2" {
		t.Errorf("unexpected created link: %+v", created)
	}

	res, err = add.Handle(t.Context(), makeReq(map[string]interface{}{"ticket_id": "SBS-1", "title": "x", "url": "not a url"}))
	mustBeToolError(t, res, err, `"rule": "url"`)
}

// ─── plane_list_projects ─────────────────────────────────────────────────────

func TestProjectsTool(t *testing.T) {
	tool := NewProjectsTool(testRegistry(t))

	res, err := tool.Handle(t.Context(), makeReq(nil))
	mustNotError(t, res, err)

	var out struct {
		Projects []ProjectSummary `json:"projects"`
		Total    int              `json:"total"`
	}
	decode(t, res, &out)
	if out.Total != 1 || out.Projects[0].Code != "SBS" {
		t.Fatalf("unexpected projects: %+v", out)
	}
	if strings.Join(out.Projects[0].States, ",") != "Todo,Done" {
		t.Errorf("states out of order: %v", out.Projects[0].States)
	}
}

// ─── journal bridge & plane_recent_activity ──────────────────────────────────

func TestJournalBridge_RecordsMutations(t *testing.T) {
	store, err := journal.New(journal.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	bridge := NewJournalBridge(store, nil)
	svc, _ := newTestService(t, "key")

	create := NewCreateIssueTool(svc, []string{"SBS"}, bridge)
	res, err := create.Handle(t.Context(), makeReq(map[string]interface{}{"project": "SBS", "name": "From test"}))
	mustNotError(t, res, err)

	del := NewDeleteIssueTool(svc, bridge)
	res, err = del.Handle(t.Context(), makeReq(map[string]interface{}{"ticket_id": "SBS-77"}))
	mustBeToolError(t, res, err, "Not Found")

	activity := NewRecentActivityTool(store)
	res, err = activity.Handle(t.Context(), makeReq(nil))
	mustNotError(t, res, err)

	var out struct {
		SessionID string          `json:"session_id"`
		Entries   []journal.Entry `json:"entries"`
		Total     int             `json:"total"`
	}
	decode(t, res, &out)
	if out.Total != 2 || out.SessionID != store.SessionID() {
		t.Fatalf("unexpected activity: %+v", out)
	}
	if out.Entries[0].Tool != "plane_delete_issue" || out.Entries[0].Outcome != journal.OutcomeError {
		t.Errorf("newest entry = %+v", out.Entries[0])
	}
	if !strings.HasPrefix(out.Entries[0].Detail, "Not Found:") {
		t.Errorf("error detail = %q", out.Entries[0].Detail)
	}
	if out.Entries[1].TicketID == nil || *out.Entries[1].TicketID != "SBS-42" {
		t.Errorf("create entry = %+v", out.Entries[1])
	}

	res, err = activity.Handle(t.Context(), makeReq(map[string]interface{}{"limit": 500}))
	mustBeToolError(t, res, err, `"rule": "max"`)
}

func TestNewJournalBridge_NilStore(t *testing.T) {
	if b := NewJournalBridge(nil, nil); b != nil {
		t.Error("expected nil bridge for nil store")
	}
	// Must not panic.
	notifyObserver(nil, Activity{Tool: "plane_add_comment"})
}
