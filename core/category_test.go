package core

import "testing"

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Category
	}{
		{
			name: "empty text",
			text: "",
			want: CategoryUnknown,
		},
		{
			name: "whitespace only",
			text: "   \t\n",
			want: CategoryUnknown,
		},
		{
			name: "exam question",
			text: "When is the midterm exam?",
			want: CategoryExam,
		},
		{
			name: "graded assignment",
			text: "I cannot submit GA4, the form is closed",
			want: CategoryAssignment,
		},
		{
			name: "project",
			text: "What is the rubric for Project 2?",
			want: CategoryAssignment,
		},
		{
			name: "technical question",
			text: "My python script throws a weird stack trace",
			want: CategoryTechnical,
		},
		{
			name: "course logistics",
			text: "Where do I find the syllabus?",
			want: CategoryCourse,
		},
		{
			name: "no matching keyword",
			text: "Hello everyone, nice to meet you",
			want: CategoryGeneral,
		},
		{
			name: "case insensitive",
			text: "EXAM SCHEDULE UPDATE",
			want: CategoryExam,
		},
		{
			name: "assignment outranks course keywords",
			text: "Is the assignment deadline on the course schedule?",
			want: CategoryAssignment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.text); got != tt.want {
				t.Errorf("Categorize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	text := "Does the final project count towards the exam grade?"
	first := Categorize(text)
	for i := 0; i < 10; i++ {
		if got := Categorize(text); got != first {
			t.Fatalf("Categorize() not deterministic: %v then %v", first, got)
		}
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name string
		want Category
	}{
		{"assignment", CategoryAssignment},
		{"exam", CategoryExam},
		{"technical", CategoryTechnical},
		{"course", CategoryCourse},
		{"general", CategoryGeneral},
		{"unknown", CategoryUnknown},
		{"  Exam ", CategoryExam},
		{"nonsense", CategoryUnknown},
		{"", CategoryUnknown},
	}

	for _, tt := range tests {
		if got := ParseCategory(tt.name); got != tt.want {
			t.Errorf("ParseCategory(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCategory_StringRoundTrip(t *testing.T) {
	categories := []Category{
		CategoryUnknown, CategoryAssignment, CategoryExam,
		CategoryTechnical, CategoryCourse, CategoryGeneral,
	}
	for _, c := range categories {
		if got := ParseCategory(c.String()); got != c {
			t.Errorf("ParseCategory(%q) = %v, want %v", c.String(), got, c)
		}
	}
}
