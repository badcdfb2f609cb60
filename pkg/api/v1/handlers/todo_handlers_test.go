package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/celestiaorg/taskman/internal/db/todo"
)

func (s *HandlerTestSuite) TestTodoFlow() {
	res := s.handler.ListTodos(s.ctx, get(nil))
	s.Require().Equal(http.StatusOK, res.Status)
	s.Empty(res.Payload.(TodoListResponse).Items)

	res = s.handler.AddTodo(s.ctx, post(s.T(), map[string]string{"note": "no title"}))
	s.Equal(http.StatusBadRequest, res.Status)
	s.Equal(ErrMsgTodoTitleRequired, errMsg(s.T(), res))

	body := `{"title":"buy milk","due_date":"2024-02-30","priority":"URGENT","people":"ann, bob,,"}`
	res = s.handler.AddTodo(s.ctx, Request{Query: url.Values{}, Body: json.RawMessage(body)})
	s.Require().Equal(http.StatusOK, res.Status)
	item := res.Payload.(TodoResponse).Item
	s.EqualValues(1, item.ID)
	s.Equal("buy milk", item.Title)
	s.Empty(item.DueDate)
	s.Equal(todo.PriorityUrgent, item.Priority)
	s.Equal([]string{"ann", "bob"}, []string(item.People))
	s.False(item.Done)

	tests := []struct {
		name    string
		body    string
		status  int
		wantErr string
	}{
		{name: "missing id", body: `{"done":true}`, status: http.StatusBadRequest, wantErr: ErrMsgIDRequired},
		{name: "missing done", body: `{"id":1}`, status: http.StatusBadRequest, wantErr: ErrMsgInvalidDone},
		{name: "bad done", body: `{"id":1,"done":"yes"}`, status: http.StatusBadRequest, wantErr: ErrMsgInvalidDone},
		{name: "unknown id", body: `{"id":42,"done":true}`, status: http.StatusNotFound},
		{name: "marks", body: `{"id":"1","done":true}`, status: http.StatusOK},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			res := s.handler.MarkTodo(s.ctx, Request{Query: url.Values{}, Body: json.RawMessage(tt.body)})
			s.Equal(tt.status, res.Status)
			if tt.wantErr != "" {
				s.Equal(tt.wantErr, errMsg(s.T(), res))
			}
		})
	}

	res = s.handler.ListTodos(s.ctx, get(nil))
	items := res.Payload.(TodoListResponse).Items
	s.Require().Len(items, 1)
	s.True(items[0].Done)
	s.True(items[0].UpdatedAt.After(items[0].CreatedAt))
}
