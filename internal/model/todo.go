package model

// Todo is the domain model for a todo entry.
// ID is assigned by the store on creation.
type Todo struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Query selects todos. The zero Query matches every todo; each set field
// must match.
type Query struct {
	ID        *int
	Title     *string
	Completed *bool
}

// ByID selects the todo with the given id.
func ByID(id int) Query { return Query{ID: &id} }

// ByCompleted selects todos by completion state.
func ByCompleted(completed bool) Query { return Query{Completed: &completed} }

func (q Query) Matches(t Todo) bool {
	if q.ID != nil && *q.ID != t.ID {
		return false
	}
	if q.Title != nil && *q.Title != t.Title {
		return false
	}
	if q.Completed != nil && *q.Completed != t.Completed {
		return false
	}
	return true
}

// Filter returns the todos matching q, keeping their order.
func (q Query) Filter(todos []Todo) []Todo {
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if q.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// UpdateRequest is a partial update; nil fields are left untouched.
type UpdateRequest struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func SetTitle(title string) UpdateRequest { return UpdateRequest{Title: &title} }

func SetCompleted(completed bool) UpdateRequest { return UpdateRequest{Completed: &completed} }

// Apply returns t with the request's fields set.
func (r UpdateRequest) Apply(t Todo) Todo {
	if r.Title != nil {
		t.Title = *r.Title
	}
	if r.Completed != nil {
		t.Completed = *r.Completed
	}
	return t
}

// Counts summarizes a collection.
type Counts struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

func CountOf(todos []Todo) Counts {
	c := Counts{Total: len(todos)}
	for _, t := range todos {
		if t.Completed {
			c.Completed++
		} else {
			c.Active++
		}
	}
	return c
}
