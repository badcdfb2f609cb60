package repos

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/celestiaorg/taskman/internal/db/models"
	"github.com/celestiaorg/taskman/internal/types"
)

type TaskRepositoryTestSuite struct {
	DBRepositoryTestSuite
}

func TestTaskRepository(t *testing.T) {
	suite.Run(t, new(TaskRepositoryTestSuite))
}

func (s *TaskRepositoryTestSuite) TestCreateUpdateDeleteScenario() {
	s.createTestProject("Demo")

	task, err := s.taskRepo.Create(s.ctx, "Demo", models.TaskFields{
		Summary:  strPtr("Implement login"),
		Assignee: strPtr("Alice"),
		Priority: strPtr("High"),
		Status:   strPtr("To Do"),
	})
	s.Require().NoError(err)
	s.Require().Equal(uint(1), task.ID)
	s.Require().Equal("Demo", task.Project)
	s.Require().False(task.Highlight)
	s.Require().Equal(task.CreatedAt, task.UpdatedAt)

	updated, err := s.taskRepo.Update(s.ctx, "Demo", task.ID, models.TaskFields{Status: strPtr("Done")})
	s.Require().NoError(err)
	s.Require().Equal(models.TaskStatusDone, updated.Status)
	s.Require().Equal("Implement login", updated.Summary)
	s.Require().Equal("Alice", updated.Assignee)
	s.Require().Equal(models.TaskPriorityHigh, updated.Priority)
	s.Require().False(updated.UpdatedAt.Before(task.UpdatedAt))

	stored, err := s.taskRepo.Get(s.ctx, "Demo", task.ID)
	s.Require().NoError(err)
	s.Require().Equal(models.TaskStatusDone, stored.Status)

	_, err = s.projectRepo.Delete(s.ctx, "Demo")
	s.Require().NoError(err)
	_, _, err = s.taskRepo.List(s.ctx, "Demo", models.TaskFilter{})
	s.Require().ErrorIs(err, types.ErrNotFound)
}

func (s *TaskRepositoryTestSuite) TestCreateDefaults() {
	s.createTestProject("Demo")
	task := s.createTestTask("Demo", "defaults")
	s.Require().Equal(models.TaskStatusToDo, task.Status)
	s.Require().Equal(models.TaskPriorityMedium, task.Priority)
	s.Require().Empty(task.Tags)
	s.Require().False(task.Highlight)
}

func (s *TaskRepositoryTestSuite) TestCreateValidation() {
	s.createTestProject("Demo")

	_, err := s.taskRepo.Create(s.ctx, "Missing", models.TaskFields{Summary: strPtr("x")})
	s.Require().ErrorIs(err, types.ErrNotFound)

	_, err = s.taskRepo.Create(s.ctx, "Demo", models.TaskFields{})
	s.Require().ErrorIs(err, types.ErrInvalidInput)

	_, err = s.taskRepo.Create(s.ctx, "Demo", models.TaskFields{Summary: strPtr("   ")})
	s.Require().ErrorIs(err, types.ErrInvalidInput)

	_, err = s.taskRepo.Create(s.ctx, "Demo", models.TaskFields{Summary: strPtr("x"), Status: strPtr("Finished")})
	s.Require().ErrorIs(err, types.ErrInvalidEnum)

	_, err = s.taskRepo.Create(s.ctx, "Demo", models.TaskFields{Summary: strPtr("x"), Priority: strPtr("Urgent")})
	s.Require().ErrorIs(err, types.ErrInvalidEnum)

	// Rejected creates do not consume ids
	s.Require().Equal(uint(1), s.createTestTask("Demo", "first").ID)
}

func (s *TaskRepositoryTestSuite) TestIDsNeverReused() {
	s.createTestProject("Demo")
	var last uint
	for i := 0; i < 3; i++ {
		task := s.createTestTask("Demo", "task")
		s.Require().Greater(task.ID, last)
		last = task.ID
	}

	s.Require().NoError(s.taskRepo.Delete(s.ctx, "Demo", last))
	next := s.createTestTask("Demo", "after delete")
	s.Require().Equal(last+1, next.ID)

	// Ids are scoped to the project
	s.createTestProject("Other")
	s.Require().Equal(uint(1), s.createTestTask("Other", "first").ID)
}

func (s *TaskRepositoryTestSuite) TestConcurrentCreate() {
	s.createTestProject("Demo")

	const n = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ids  []uint
		errs []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task, err := s.taskRepo.Create(s.ctx, "Demo", models.TaskFields{Summary: strPtr("concurrent")})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			ids = append(ids, task.ID)
		}()
	}
	wg.Wait()

	s.Require().Empty(errs)
	s.Require().Len(ids, n)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for i, id := range ids {
		s.Require().Equal(uint(i+1), id)
	}
	s.Require().Equal(int64(n), s.countTasks("Demo"))
}

func (s *TaskRepositoryTestSuite) TestUpdateErrors() {
	s.createTestProject("Demo")
	task := s.createTestTask("Demo", "task")

	_, err := s.taskRepo.Update(s.ctx, "Demo", 99, models.TaskFields{Status: strPtr("Done")})
	s.Require().ErrorIs(err, types.ErrNotFound)

	_, err = s.taskRepo.Update(s.ctx, "Missing", task.ID, models.TaskFields{Status: strPtr("Done")})
	s.Require().ErrorIs(err, types.ErrNotFound)

	_, err = s.taskRepo.Update(s.ctx, "Demo", task.ID, models.TaskFields{Status: strPtr("Finished")})
	s.Require().ErrorIs(err, types.ErrInvalidEnum)

	_, err = s.taskRepo.Update(s.ctx, "Demo", task.ID, models.TaskFields{Summary: strPtr("")})
	s.Require().ErrorIs(err, types.ErrInvalidInput)

	stored, err := s.taskRepo.Get(s.ctx, "Demo", task.ID)
	s.Require().NoError(err)
	s.Require().Equal(task.Summary, stored.Summary)
	s.Require().Equal(task.Status, stored.Status)
}

func (s *TaskRepositoryTestSuite) TestDelete() {
	s.createTestProject("Demo")
	task := s.createTestTask("Demo", "task")

	s.Require().NoError(s.taskRepo.Delete(s.ctx, "Demo", task.ID))
	s.Require().ErrorIs(s.taskRepo.Delete(s.ctx, "Demo", task.ID), types.ErrNotFound)
	s.Require().ErrorIs(s.taskRepo.Delete(s.ctx, "Missing", task.ID), types.ErrNotFound)
}

func (s *TaskRepositoryTestSuite) TestHighlights() {
	s.createTestProject("Alpha")
	s.createTestProject("Beta")
	a := s.createTestTask("Alpha", "alpha task")
	s.createTestTask("Alpha", "not highlighted")
	b := s.createTestTask("Beta", "beta task")

	highlighted, err := s.taskRepo.SetHighlight(s.ctx, "Alpha", a.ID, true)
	s.Require().NoError(err)
	s.Require().True(highlighted.Highlight)
	_, err = s.taskRepo.SetHighlight(s.ctx, "Beta", b.ID, true)
	s.Require().NoError(err)

	highlights, err := s.taskRepo.ListHighlighted(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(highlights, 2)
	s.Require().Equal("Alpha", highlights[0].Project)
	s.Require().Equal("alpha task", highlights[0].Summary)
	s.Require().Equal("Beta", highlights[1].Project)
	s.Require().Equal("beta task", highlights[1].Summary)

	_, err = s.taskRepo.SetHighlight(s.ctx, "Beta", b.ID, false)
	s.Require().NoError(err)
	highlights, err = s.taskRepo.ListHighlighted(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(highlights, 1)

	_, err = s.taskRepo.SetHighlight(s.ctx, "Beta", 42, true)
	s.Require().ErrorIs(err, types.ErrNotFound)
}

func (s *TaskRepositoryTestSuite) TestListFilters() {
	s.createTestProject("Demo")
	tags := func(t ...string) *[]string { return &t }

	_, err := s.taskRepo.Create(s.ctx, "Demo", models.TaskFields{
		Summary: strPtr("one"), Assignee: strPtr("Alice"), Status: strPtr("Done"), Tags: tags("ui", "auth"),
	})
	s.Require().NoError(err)
	_, err = s.taskRepo.Create(s.ctx, "Demo", models.TaskFields{
		Summary: strPtr("two"), Assignee: strPtr("bob"), Priority: strPtr("Critical"), Tags: tags("ui"),
	})
	s.Require().NoError(err)
	_, err = s.taskRepo.Create(s.ctx, "Demo", models.TaskFields{
		Summary: strPtr("three"), Assignee: strPtr("alice"),
	})
	s.Require().NoError(err)

	tests := []struct {
		name     string
		filter   models.TaskFilter
		expected []string
	}{
		{name: "no filter", filter: models.TaskFilter{}, expected: []string{"one", "two", "three"}},
		{name: "assignee ignores case", filter: models.TaskFilter{Assignee: "ALICE"}, expected: []string{"one", "three"}},
		{name: "status", filter: models.TaskFilter{Status: "done"}, expected: []string{"one"}},
		{name: "priority", filter: models.TaskFilter{Priority: "Critical"}, expected: []string{"two"}},
		{name: "single tag", filter: models.TaskFilter{Tags: []string{"ui"}}, expected: []string{"one", "two"}},
		{name: "all tags required", filter: models.TaskFilter{Tags: []string{"ui", "auth"}}, expected: []string{"one"}},
		{name: "combined", filter: models.TaskFilter{Assignee: "bob", Tags: []string{"auth"}}, expected: []string{}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, tasks, err := s.taskRepo.List(s.ctx, "demo", tt.filter)
			s.Require().NoError(err)
			summaries := []string{}
			for _, t := range tasks {
				summaries = append(summaries, t.Summary)
			}
			s.Require().Equal(tt.expected, summaries)
		})
	}

	_, _, err = s.taskRepo.List(s.ctx, "Demo", models.TaskFilter{Status: "bogus"})
	s.Require().ErrorIs(err, types.ErrInvalidEnum)
}

func (s *TaskRepositoryTestSuite) TestAssignees() {
	s.createTestProject("Alpha")
	s.createTestProject("Beta")
	for _, a := range []struct{ project, assignee string }{
		{"Alpha", "bob"},
		{"Alpha", "Alice"},
		{"Alpha", ""},
		{"Beta", "alice"},
		{"Beta", "Carol"},
	} {
		_, err := s.taskRepo.Create(s.ctx, a.project, models.TaskFields{Summary: strPtr("t"), Assignee: strPtr(a.assignee)})
		s.Require().NoError(err)
	}

	assignees, err := s.taskRepo.ListAssignees(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal([]string{"Alice", "bob", "Carol"}, assignees)

	tasks, err := s.taskRepo.ListByAssignee(s.ctx, "ALICE")
	s.Require().NoError(err)
	s.Require().Len(tasks, 2)
	s.Require().Equal("Alpha", tasks[0].Project)
	s.Require().Equal("Beta", tasks[1].Project)

	all, err := s.taskRepo.ListByAssignee(s.ctx, "")
	s.Require().NoError(err)
	s.Require().Len(all, 5)
}

func (s *TaskRepositoryTestSuite) TestTagsStoredAsJSONArray() {
	s.createTestProject("Demo")
	tagged, err := s.taskRepo.Create(s.ctx, "Demo", models.TaskFields{
		Summary: strPtr("tagged"), Tags: &[]string{"ui", "auth"},
	})
	s.Require().NoError(err)
	plain := s.createTestTask("Demo", "plain")

	rawTags := func(id uint) string {
		var raw string
		s.Require().NoError(s.db.Raw("SELECT tags FROM tasks WHERE project = ? AND id = ?", "Demo", id).Scan(&raw).Error)
		return raw
	}
	s.Require().JSONEq(`["ui","auth"]`, rawTags(tagged.ID))
	s.Require().JSONEq(`[]`, rawTags(plain.ID))

	// Rows holding a JSON null load as an empty set
	s.Require().NoError(s.db.Exec("UPDATE tasks SET tags = 'null' WHERE id = ?", plain.ID).Error)
	stored, err := s.taskRepo.Get(s.ctx, "Demo", plain.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stored.Tags)
	s.Require().Empty(stored.Tags)

	stored, err = s.taskRepo.Get(s.ctx, "Demo", tagged.ID)
	s.Require().NoError(err)
	s.Require().Equal(models.Tags{"ui", "auth"}, stored.Tags)
}
