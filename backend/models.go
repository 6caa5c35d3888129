package backend

import "time"

// Role discriminates the two account types the job board serves.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleEmployer  Role = "employer"
)

// User is the backend's authoritative view of an account. It supersedes the
// claims decoded locally from the token whenever the two disagree.
type User struct {
	ID        int64  `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
}

// FullName joins the name fields for display.
func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Job is a posting as the backend returns it.
type Job struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	CompanyID      int64     `json:"company_id"`
	CompanyName    string    `json:"company_name"`
	Location       string    `json:"location"`
	EmploymentType string    `json:"employment_type"`
	SalaryRange    string    `json:"salary_range"`
	Description    string    `json:"description"`
	Requirements   string    `json:"requirements"`
	PostedBy       int64     `json:"posted_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// JobDraft carries the fields an employer submits when creating or editing
// a posting.
type JobDraft struct {
	Title          string `json:"title"`
	Location       string `json:"location"`
	EmploymentType string `json:"employment_type"`
	SalaryRange    string `json:"salary_range"`
	Description    string `json:"description"`
	Requirements   string `json:"requirements"`
}

// JobFilter narrows a job listing request.
type JobFilter struct {
	Query    string
	Location string
}

// Application links a candidate to a job posting.
type Application struct {
	ID            int64     `json:"id"`
	JobID         int64     `json:"job_id"`
	JobTitle      string    `json:"job_title"`
	CompanyName   string    `json:"company_name"`
	CandidateID   int64     `json:"candidate_id"`
	CandidateName string    `json:"candidate_name"`
	Status        string    `json:"status"`
	CoverLetter   string    `json:"cover_letter"`
	CreatedAt     time.Time `json:"created_at"`
}

// Company is an employer's public profile.
type Company struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Website string `json:"website"`
	About   string `json:"about"`
	OwnerID int64  `json:"owner_id"`
}

// Candidate is a candidate's public profile.
type Candidate struct {
	UserID    int64    `json:"user_id"`
	Headline  string   `json:"headline"`
	Skills    []string `json:"skills"`
	ResumeURL string   `json:"resume_url"`
	About     string   `json:"about"`
}

// Conversation is one entry in the messaging inbox.
type Conversation struct {
	ID          int64     `json:"id"`
	PartnerID   int64     `json:"partner_id"`
	PartnerName string    `json:"partner_name"`
	LastMessage string    `json:"last_message"`
	Unread      int       `json:"unread"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Message is a single entry in a conversation thread.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	SenderID       int64     `json:"sender_id"`
	Body           string    `json:"body"`
	SentAt         time.Time `json:"sent_at"`
}
