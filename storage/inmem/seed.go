package inmem

import (
	"log"

	"github.com/llamalearn/llamalearn/core/course"
	"github.com/llamalearn/llamalearn/core/quiz"
	"github.com/llamalearn/llamalearn/core/user"
)

// Seed loads the demo accounts and one finished course so the terminal
// client has something to browse against a fresh stub.
func Seed(s *Store) {
	prof, err := s.CreateUser("prof@llamalearn.test", "profdemo", user.RoleProfessor, "Pr0f-Demo!")
	if err != nil {
		log.Printf("seed: professor already present: %v", err)
		return
	}
	if _, err := s.CreateUser("student@llamalearn.test", "studentdemo", user.RoleStudent, "Stud3nt-Demo!"); err != nil {
		log.Printf("seed: student: %v", err)
	}

	crs := course.Course{
		Title:          "Linear Algebra Foundations",
		Description:    "Vectors, matrices and the geometry behind them.",
		Difficulty:     "intermediate",
		EstimatedHours: 12,
		Prerequisites:  []string{"High-school algebra"},
		LearningOutcomes: []string{
			"Manipulate vectors and matrices fluently",
			"Interpret linear maps geometrically",
		},
		Highlights: []string{"Worked examples with LaTeX derivations"},
		Skills:     []string{"linear-algebra", "proofs"},
		Sections: []course.Section{
			{
				ID:    "s-1",
				Title: "Vectors",
				Pages: []course.Page{
					{ID: "p-1", Title: "What is a vector?", Content: "A vector $v \\in \\mathbb{R}^n$ is an ordered tuple...\n\n## Addition\n\n$u + v$ is componentwise."},
					{ID: "p-2", Title: "Dot product", Content: "The dot product $u \\cdot v = \\sum_i u_i v_i$ measures alignment."},
				},
			},
			{
				ID:    "s-2",
				Title: "Matrices",
				Pages: []course.Page{
					{ID: "p-3", Title: "Matrix multiplication", Content: "Rows times columns: $(AB)_{ij} = \\sum_k A_{ik}B_{kj}$."},
				},
			},
		},
	}

	key := &QuizRecord{
		Quiz: quiz.Quiz{
			SectionID: "s-2",
			Questions: []quiz.Question{
				{
					ID:     "qq-1",
					Prompt: "What is the dot product of (1,0) and (0,1)?",
					Choices: []quiz.Choice{
						{ID: "a", Content: "0"},
						{ID: "b", Content: "1"},
						{ID: "c", Content: "-1"},
					},
				},
				{
					ID:     "qq-2",
					Prompt: "Matrix multiplication is",
					Choices: []quiz.Choice{
						{ID: "a", Content: "commutative"},
						{ID: "b", Content: "associative"},
					},
				},
				{
					ID:     "qq-3",
					Prompt: "A vector in R^3 has how many components?",
					Choices: []quiz.Choice{
						{ID: "a", Content: "2"},
						{ID: "b", Content: "3"},
						{ID: "c", Content: "4"},
					},
				},
			},
		},
		Key: map[string]string{"qq-1": "a", "qq-2": "b", "qq-3": "b"},
	}

	s.CreateCourse(prof.ID, crs, key, "")
}
