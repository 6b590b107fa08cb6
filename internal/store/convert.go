package store

import (
	"slices"
	"time"

	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/sandeepkv93/cadence/internal/storage"
)

func listToEntity(l model.ListState, position int) storage.List {
	return storage.List{
		ID:              l.ID,
		Name:            l.Name,
		Position:        position,
		CreatedAt:       l.CreatedAt,
		LastResetAt:     l.LastResetAt,
		Mode:            string(l.Settings.Mode),
		ResetHour:       l.Settings.Hour,
		ResetMinute:     l.Settings.Minute,
		ResetWeekday:    int(l.Settings.Weekday),
		ResetDayOfMonth: l.Settings.DayOfMonth,
		CarryOver:       l.Settings.CarryOver,
		Tasks:           tasksToEntity(l.Tasks),
	}
}

func listFromEntity(in storage.List) model.ListState {
	return model.ListState{
		ID:          in.ID,
		Name:        in.Name,
		CreatedAt:   in.CreatedAt,
		LastResetAt: in.LastResetAt,
		Tasks:       tasksFromEntity(in.Tasks),
		Settings: model.RecurrenceRule{
			Mode:       model.Mode(in.Mode),
			Hour:       in.ResetHour,
			Minute:     in.ResetMinute,
			Weekday:    time.Weekday(in.ResetWeekday),
			DayOfMonth: in.ResetDayOfMonth,
			CarryOver:  in.CarryOver,
		},
	}
}

func tasksToEntity(tasks []model.TaskItem) []storage.Task {
	out := make([]storage.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, storage.Task{
			ID:        t.ID,
			Title:     t.Title,
			Note:      t.Note,
			Checked:   t.Checked,
			Priority:  string(t.Priority),
			Tags:      slices.Clone(t.Tags),
			CreatedAt: t.CreatedAt,
		})
	}
	return out
}

func tasksFromEntity(tasks []storage.Task) []model.TaskItem {
	out := make([]model.TaskItem, 0, len(tasks))
	for _, t := range tasks {
		tags := slices.Clone(t.Tags)
		if tags == nil {
			tags = []string{}
		}
		out = append(out, model.TaskItem{
			ID:        t.ID,
			Title:     t.Title,
			Note:      t.Note,
			Checked:   t.Checked,
			Priority:  model.Priority(t.Priority),
			Tags:      tags,
			CreatedAt: t.CreatedAt,
		})
	}
	return out
}

func snapshotToEntity(s model.Snapshot) storage.Snapshot {
	return storage.Snapshot{
		ID:        s.ID,
		ListID:    s.ListID,
		ListName:  s.ListName,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
		Total:     s.Total,
		Completed: s.Completed,
		Percent:   s.Percent,
		Tasks:     tasksToEntity(s.Tasks),
	}
}

func snapshotFromEntity(in storage.Snapshot) model.Snapshot {
	return model.Snapshot{
		ID:        in.ID,
		ListID:    in.ListID,
		ListName:  in.ListName,
		StartedAt: in.StartedAt,
		EndedAt:   in.EndedAt,
		Total:     in.Total,
		Completed: in.Completed,
		Percent:   in.Percent,
		Tasks:     tasksFromEntity(in.Tasks),
	}
}

func templateToEntity(t model.Template) storage.Template {
	tasks := make([]storage.TemplateTask, 0, len(t.Tasks))
	for _, task := range t.Tasks {
		tasks = append(tasks, storage.TemplateTask{Title: task.Title, Priority: string(task.Priority), Tags: slices.Clone(task.Tags)})
	}
	return storage.Template{ID: t.ID, Name: t.Name, Tasks: tasks, CreatedAt: t.CreatedAt}
}

func templateFromEntity(in storage.Template) model.Template {
	tasks := make([]model.TemplateTask, 0, len(in.Tasks))
	for _, task := range in.Tasks {
		tasks = append(tasks, model.TemplateTask{Title: task.Title, Priority: model.Priority(task.Priority), Tags: slices.Clone(task.Tags)})
	}
	return model.Template{ID: in.ID, Name: in.Name, Tasks: tasks, CreatedAt: in.CreatedAt}
}
