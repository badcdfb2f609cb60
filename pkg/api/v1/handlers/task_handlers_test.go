package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
)

func (s *HandlerTestSuite) TestCreateTask() {
	s.openProject("Alpha")

	tests := []struct {
		name    string
		project string
		body    string
		status  int
		wantErr string
	}{
		{name: "defaults", project: "Alpha", body: `{"summary":"first"}`, status: http.StatusOK},
		{name: "all fields", project: "alpha", body: `{"summary":"second","assignee":"bob","status":"in progress","priority":"high","tags":["ui"],"remarks":"r","highlight":true}`, status: http.StatusOK},
		{name: "missing summary", project: "Alpha", body: `{"assignee":"bob"}`, status: http.StatusBadRequest, wantErr: ErrMsgTaskSummaryRequired},
		{name: "blank summary", project: "Alpha", body: `{"summary":"  "}`, status: http.StatusBadRequest, wantErr: ErrMsgTaskSummaryRequired},
		{name: "bad status", project: "Alpha", body: `{"summary":"x","status":"Later"}`, status: http.StatusBadRequest},
		{name: "bad priority", project: "Alpha", body: `{"summary":"x","priority":"Whenever"}`, status: http.StatusBadRequest},
		{name: "bad highlight", project: "Alpha", body: `{"summary":"x","highlight":"yes"}`, status: http.StatusBadRequest, wantErr: ErrMsgInvalidHighlight},
		{name: "unknown project", project: "Nope", body: `{"summary":"x"}`, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := Request{Params: map[string]string{"name": tt.project}, Query: url.Values{}, Body: json.RawMessage(tt.body)}
			res := s.handler.CreateTask(s.ctx, req)
			s.Equal(tt.status, res.Status)
			if tt.wantErr != "" {
				s.Equal(tt.wantErr, errMsg(s.T(), res))
			}
		})
	}

	res := s.handler.ListTasks(s.ctx, get(nil, "name", "Alpha"))
	payload := res.Payload.(TaskListResponse)
	s.Equal("Alpha", payload.Project)
	s.Require().Len(payload.Tasks, 2)
	s.EqualValues(1, payload.Tasks[0].ID)
	s.Equal("To Do", string(payload.Tasks[0].Status))
	s.Equal("Medium", string(payload.Tasks[0].Priority))
	s.EqualValues(2, payload.Tasks[1].ID)
	s.Equal("In Progress", string(payload.Tasks[1].Status))
	s.Equal("High", string(payload.Tasks[1].Priority))
	s.True(payload.Tasks[1].Highlight)
}

func (s *HandlerTestSuite) TestUpdateTask() {
	s.openProject("Alpha")
	res := s.handler.CreateTask(s.ctx, post(s.T(), map[string]string{"summary": "first"}, "name", "Alpha"))
	s.Require().Equal(http.StatusOK, res.Status)
	s.EqualValues(1, res.Payload.(TaskCreateResponse).ID)

	tests := []struct {
		name    string
		body    string
		status  int
		wantErr string
	}{
		{name: "missing id", body: `{"fields":{"summary":"x"}}`, status: http.StatusBadRequest, wantErr: ErrMsgIDRequired},
		{name: "zero id", body: `{"id":0,"fields":{"summary":"x"}}`, status: http.StatusBadRequest, wantErr: ErrMsgInvalidID},
		{name: "non numeric id", body: `{"id":"abc","fields":{"summary":"x"}}`, status: http.StatusBadRequest, wantErr: ErrMsgInvalidID},
		{name: "missing fields", body: `{"id":1}`, status: http.StatusBadRequest, wantErr: ErrMsgTaskFieldsRequired},
		{name: "unknown task", body: `{"id":9,"fields":{"summary":"x"}}`, status: http.StatusNotFound},
		{name: "bad status", body: `{"id":1,"fields":{"status":"nope"}}`, status: http.StatusBadRequest},
		{name: "string id", body: `{"id":"1","fields":{"assignee":"carol"}}`, status: http.StatusOK},
		{name: "partial", body: `{"id":1,"fields":{"status":"Done"}}`, status: http.StatusOK},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := Request{Params: map[string]string{"name": "Alpha"}, Query: url.Values{}, Body: json.RawMessage(tt.body)}
			res := s.handler.UpdateTask(s.ctx, req)
			s.Equal(tt.status, res.Status)
			if tt.wantErr != "" {
				s.Equal(tt.wantErr, errMsg(s.T(), res))
			}
		})
	}

	res = s.handler.ListTasks(s.ctx, get(nil, "name", "Alpha"))
	task := res.Payload.(TaskListResponse).Tasks[0]
	s.Equal("first", task.Summary)
	s.Equal("carol", task.Assignee)
	s.Equal("Done", string(task.Status))
}

func (s *HandlerTestSuite) TestHighlightAndDeleteTask() {
	s.openProject("Alpha")
	for _, summary := range []string{"one", "two"} {
		res := s.handler.CreateTask(s.ctx, post(s.T(), map[string]string{"summary": summary}, "name", "Alpha"))
		s.Require().Equal(http.StatusOK, res.Status)
	}

	res := s.handler.HighlightTask(s.ctx, post(s.T(), map[string]interface{}{"id": 2}, "name", "Alpha"))
	s.Equal(http.StatusBadRequest, res.Status)
	s.Equal(ErrMsgInvalidHighlight, errMsg(s.T(), res))

	res = s.handler.HighlightTask(s.ctx, post(s.T(), map[string]interface{}{"id": 2, "highlight": "on"}, "name", "Alpha"))
	s.Equal(http.StatusBadRequest, res.Status)
	s.Equal(ErrMsgInvalidHighlight, errMsg(s.T(), res))

	res = s.handler.HighlightTask(s.ctx, post(s.T(), map[string]interface{}{"id": 2, "highlight": true}, "name", "Alpha"))
	s.Require().Equal(http.StatusOK, res.Status)
	s.True(res.Payload.(TaskResponse).Task.Highlight)

	res = s.handler.ListHighlights(s.ctx, get(nil))
	highlights := res.Payload.(HighlightsResponse).Highlights
	s.Require().Len(highlights, 1)
	s.Equal("two", highlights[0].Summary)
	s.Equal("Alpha", highlights[0].Project)

	res = s.handler.DeleteTask(s.ctx, post(s.T(), map[string]interface{}{"id": 2}, "name", "Alpha"))
	s.Require().Equal(http.StatusOK, res.Status)
	s.EqualValues(2, res.Payload.(TaskDeleteResponse).ID)

	res = s.handler.DeleteTask(s.ctx, post(s.T(), map[string]interface{}{"id": 2}, "name", "Alpha"))
	s.Equal(http.StatusNotFound, res.Status)

	res = s.handler.DeleteTask(s.ctx, post(s.T(), map[string]interface{}{}, "name", "Alpha"))
	s.Equal(http.StatusBadRequest, res.Status)
	s.Equal(ErrMsgIDRequired, errMsg(s.T(), res))

	res = s.handler.ListHighlights(s.ctx, get(nil))
	s.Empty(res.Payload.(HighlightsResponse).Highlights)

	// ids are not reused after a delete
	res = s.handler.CreateTask(s.ctx, post(s.T(), map[string]string{"summary": "three"}, "name", "Alpha"))
	s.EqualValues(3, res.Payload.(TaskCreateResponse).ID)
}

func (s *HandlerTestSuite) TestListTasksFilters() {
	s.openProject("Alpha")
	bodies := []string{
		`{"summary":"a","assignee":"bob","status":"Done","tags":["ui","api"]}`,
		`{"summary":"b","assignee":"Bob","priority":"High","tags":["ui"]}`,
		`{"summary":"c","assignee":"carol"}`,
	}
	for _, body := range bodies {
		req := Request{Params: map[string]string{"name": "Alpha"}, Query: url.Values{}, Body: json.RawMessage(body)}
		s.Require().Equal(http.StatusOK, s.handler.CreateTask(s.ctx, req).Status)
	}

	tests := []struct {
		name  string
		query url.Values
		want  []string
	}{
		{name: "no filter", query: url.Values{}, want: []string{"a", "b", "c"}},
		{name: "assignee", query: url.Values{"assignee": {"carol"}}, want: []string{"c"}},
		{name: "status", query: url.Values{"status": {"done"}}, want: []string{"a"}},
		{name: "priority", query: url.Values{"priority": {"High"}}, want: []string{"b"}},
		{name: "repeated tags", query: url.Values{"tag": {"ui", "api"}}, want: []string{"a"}},
		{name: "single tag", query: url.Values{"tag": {"ui"}}, want: []string{"a", "b"}},
		{name: "comma tags", query: url.Values{"tag": {"api,ui"}}, want: []string{"a"}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			res := s.handler.ListTasks(s.ctx, get(tt.query, "name", "Alpha"))
			s.Require().Equal(http.StatusOK, res.Status)
			var got []string
			for _, task := range res.Payload.(TaskListResponse).Tasks {
				got = append(got, task.Summary)
			}
			s.Equal(tt.want, got)
		})
	}

	res := s.handler.ListTasks(s.ctx, get(url.Values{"status": {"Someday"}}, "name", "Alpha"))
	s.Equal(http.StatusBadRequest, res.Status)

	res = s.handler.ListTasks(s.ctx, get(nil, "name", "Missing"))
	s.Equal(http.StatusNotFound, res.Status)
}

func (s *HandlerTestSuite) TestCrossProjectListings() {
	s.openProject("Alpha")
	s.openProject("Beta")
	for _, p := range []struct{ project, body string }{
		{"Alpha", `{"summary":"a1","assignee":"bob"}`},
		{"Beta", `{"summary":"b1","assignee":"Alice"}`},
		{"Beta", `{"summary":"b2","assignee":"bob"}`},
	} {
		req := Request{Params: map[string]string{"name": p.project}, Query: url.Values{}, Body: json.RawMessage(p.body)}
		s.Require().Equal(http.StatusOK, s.handler.CreateTask(s.ctx, req).Status)
	}

	res := s.handler.ListAssignees(s.ctx, get(nil))
	s.Equal([]string{"Alice", "bob"}, res.Payload.(AssigneesResponse).Assignees)

	res = s.handler.ListTasksByAssignee(s.ctx, get(url.Values{"assignee": {"bob"}}))
	s.Require().Equal(http.StatusOK, res.Status)
	payload := res.Payload.(TaskListResponse)
	s.Empty(payload.Project)
	s.Len(payload.Tasks, 2)
}
