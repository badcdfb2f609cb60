package handlers

import (
	"net/http"
	"os"
)

func (s *HandlerTestSuite) TestOpenProject() {
	tests := []struct {
		name    string
		body    interface{}
		status  int
		wantErr string
		want    string
	}{
		{name: "creates", body: map[string]string{"name": "Alpha"}, status: http.StatusOK, want: "Alpha"},
		{name: "reopens with stored spelling", body: map[string]string{"name": "alpha"}, status: http.StatusOK, want: "Alpha"},
		{name: "trims", body: map[string]string{"name": "  Beta "}, status: http.StatusOK, want: "Beta"},
		{name: "missing name", body: map[string]string{}, status: http.StatusBadRequest, wantErr: ErrMsgProjNameRequired},
		{name: "blank name", body: map[string]string{"name": "   "}, status: http.StatusBadRequest, wantErr: ErrMsgProjNameRequired},
		{name: "traversal", body: map[string]string{"name": "../etc"}, status: http.StatusBadRequest},
		{name: "slash", body: map[string]string{"name": "a/b"}, status: http.StatusBadRequest},
		{name: "hidden", body: map[string]string{"name": ".hidden"}, status: http.StatusBadRequest},
		{name: "wrong type", body: map[string]int{"name": 7}, status: http.StatusBadRequest, wantErr: ErrMsgInvalidParams + ": name"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			res := s.handler.OpenProject(s.ctx, post(s.T(), tt.body))
			s.Equal(tt.status, res.Status)
			if tt.status != http.StatusOK {
				if tt.wantErr != "" {
					s.Equal(tt.wantErr, errMsg(s.T(), res))
				}
				return
			}
			payload := res.Payload.(ProjectOpenResponse)
			s.True(payload.OK)
			s.Equal(tt.want, payload.CurrentProject)
			s.Equal(tt.want, payload.Project.Name)
		})
	}
}

func (s *HandlerTestSuite) TestGetState() {
	res := s.handler.GetState(s.ctx, get(nil))
	s.Equal(http.StatusOK, res.Status)
	s.Nil(res.Payload.(StateResponse).CurrentProject)

	s.openProject("Alpha")
	res = s.handler.GetState(s.ctx, get(nil))
	s.Require().NotNil(res.Payload.(StateResponse).CurrentProject)
	s.Equal("Alpha", *res.Payload.(StateResponse).CurrentProject)

	res = s.handler.RenameProject(s.ctx, post(s.T(), map[string]string{"old_name": "alpha", "new_name": "Beta"}))
	s.Require().Equal(http.StatusOK, res.Status)
	res = s.handler.GetState(s.ctx, get(nil))
	s.Equal("Beta", *res.Payload.(StateResponse).CurrentProject)

	res = s.handler.DeleteProject(s.ctx, post(s.T(), map[string]string{"name": "beta"}))
	s.Require().Equal(http.StatusOK, res.Status)
	res = s.handler.GetState(s.ctx, get(nil))
	s.Nil(res.Payload.(StateResponse).CurrentProject)
}

func (s *HandlerTestSuite) TestListProjects() {
	res := s.handler.ListProjects(s.ctx, get(nil))
	s.Equal(http.StatusOK, res.Status)
	s.NotNil(res.Payload.(ProjectListResponse).Projects)
	s.Empty(res.Payload.(ProjectListResponse).Projects)

	s.openProject("zeta")
	s.openProject("Alpha")
	res = s.handler.CreateTask(s.ctx, post(s.T(), map[string]string{"summary": "one"}, "name", "alpha"))
	s.Require().Equal(http.StatusOK, res.Status)

	res = s.handler.ListProjects(s.ctx, get(nil))
	projects := res.Payload.(ProjectListResponse).Projects
	s.Require().Len(projects, 2)
	s.Equal("Alpha", projects[0].Name)
	s.EqualValues(1, projects[0].TaskCount)
	s.Equal("zeta", projects[1].Name)
	s.EqualValues(0, projects[1].TaskCount)
}

func (s *HandlerTestSuite) TestProjectTags() {
	s.openProject("Alpha")

	res := s.handler.AddProjectTags(s.ctx, post(s.T(), map[string][]string{"tags": {"ui", " api ", "ui", ""}}, "name", "alpha"))
	s.Require().Equal(http.StatusOK, res.Status)
	s.Equal(TagsResponse{Project: "Alpha", Tags: []string{"api", "ui"}}, res.Payload)

	res = s.handler.AddProjectTags(s.ctx, post(s.T(), map[string][]string{"tags": {}}, "name", "Alpha"))
	s.Equal(http.StatusBadRequest, res.Status)
	s.Equal(ErrMsgTagsRequired, errMsg(s.T(), res))

	res = s.handler.GetProjectTags(s.ctx, get(nil, "name", "ALPHA"))
	s.Equal(TagsResponse{Project: "Alpha", Tags: []string{"api", "ui"}}, res.Payload)

	res = s.handler.ListProjectTags(s.ctx, get(nil))
	s.Equal(map[string][]string{"Alpha": {"api", "ui"}}, res.Payload.(ProjectTagsResponse).TagsByProject)

	res = s.handler.RemoveProjectTag(s.ctx, post(s.T(), map[string]string{"tag": "ui"}, "name", "Alpha"))
	s.Equal(TagsResponse{Project: "Alpha", Tags: []string{"api"}}, res.Payload)

	res = s.handler.RemoveProjectTag(s.ctx, post(s.T(), map[string]string{}, "name", "Alpha"))
	s.Equal(http.StatusBadRequest, res.Status)
	s.Equal(ErrMsgTagRequired, errMsg(s.T(), res))

	res = s.handler.GetProjectTags(s.ctx, get(nil, "name", "missing"))
	s.Equal(http.StatusNotFound, res.Status)
}

func (s *HandlerTestSuite) TestRenameProject() {
	s.openProject("Alpha")
	s.openProject("Beta")

	tests := []struct {
		name   string
		body   map[string]string
		status int
		want   string
	}{
		{name: "missing old name", body: map[string]string{"new_name": "x"}, status: http.StatusBadRequest, want: ErrMsgProjNameRequired},
		{name: "missing new name", body: map[string]string{"old_name": "Alpha"}, status: http.StatusBadRequest, want: ErrMsgProjNewNameRequired},
		{name: "unknown project", body: map[string]string{"old_name": "nope", "new_name": "x"}, status: http.StatusNotFound},
		{name: "conflict ignores case", body: map[string]string{"old_name": "Alpha", "new_name": "beta"}, status: http.StatusConflict},
		{name: "invalid target", body: map[string]string{"old_name": "Alpha", "new_name": "a/b"}, status: http.StatusBadRequest},
		{name: "case only", body: map[string]string{"old_name": "alpha", "new_name": "ALPHA"}, status: http.StatusOK, want: "ALPHA"},
		{name: "renames", body: map[string]string{"old_name": "ALPHA", "new_name": "Gamma"}, status: http.StatusOK, want: "Gamma"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			res := s.handler.RenameProject(s.ctx, post(s.T(), tt.body))
			s.Equal(tt.status, res.Status)
			switch {
			case tt.status == http.StatusOK:
				payload := res.Payload.(ProjectRenameResponse)
				s.True(payload.OK)
				s.Equal(tt.want, payload.Project)
			case tt.want != "":
				s.Equal(tt.want, errMsg(s.T(), res))
			}
		})
	}
}

func (s *HandlerTestSuite) TestDeleteProject() {
	s.openProject("Alpha")

	res := s.handler.DeleteProject(s.ctx, post(s.T(), map[string]string{}))
	s.Equal(http.StatusBadRequest, res.Status)

	res = s.handler.DeleteProject(s.ctx, post(s.T(), map[string]string{"name": "ALPHA"}))
	s.Require().Equal(http.StatusOK, res.Status)
	payload := res.Payload.(ProjectDeleteResponse)
	s.True(payload.OK)
	s.Equal("Alpha", payload.Deleted)

	res = s.handler.DeleteProject(s.ctx, post(s.T(), map[string]string{"name": "Alpha"}))
	s.Equal(http.StatusNotFound, res.Status)
}

func (s *HandlerTestSuite) TestExportProject() {
	s.openProject("Alpha")
	res := s.handler.CreateTask(s.ctx, post(s.T(), map[string]string{"summary": "write docs"}, "name", "Alpha"))
	s.Require().Equal(http.StatusOK, res.Status)

	res = s.handler.ExportProject(s.ctx, get(nil, "name", "alpha"))
	s.Require().Equal(http.StatusOK, res.Status)
	path := res.Payload.(ProjectExportResponse).Path
	data, err := os.ReadFile(path)
	s.Require().NoError(err)
	s.Contains(string(data), "write docs")

	res = s.handler.ExportProject(s.ctx, get(nil, "name", "missing"))
	s.Equal(http.StatusNotFound, res.Status)
}
