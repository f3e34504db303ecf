package database

import (
	"time"

	"github.com/amoylab/hireloop/internal/common/cnst"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identity and timestamps shared by every row
type Base struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller did not set one
func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// TenantOwned marks a row as belonging to exactly one tenant
type TenantOwned struct {
	TenantID string `json:"tenantId" gorm:"type:varchar(36);not null;index"`
}

func (t *TenantOwned) GetTenantID() string   { return t.TenantID }
func (t *TenantOwned) SetTenantID(id string) { t.TenantID = id }

// GlobalRole is a platform-wide role, independent of any tenant
type GlobalRole string

const (
	GlobalRoleUser       GlobalRole = "user"
	GlobalRoleSuperAdmin GlobalRole = "super_admin"
)

// Tenant is an isolated customer organization
type Tenant struct {
	Base
	Name        string `json:"name" gorm:"type:varchar(100);not null"`
	Slug        string `json:"slug" gorm:"type:varchar(63);not null;uniqueIndex"`
	Plan        string `json:"plan" gorm:"type:varchar(20);not null;default:'free'"`
	ScoringMode string `json:"scoringMode" gorm:"type:varchar(20);not null;default:'hybrid'"`
	// ScoringOverrides is the raw JSON document applied on top of the
	// mode's base profile
	ScoringOverrides string `json:"scoringOverrides" gorm:"type:text"`
	IsActive         bool   `json:"isActive" gorm:"not null;default:true"`
}

// User is a platform account
type User struct {
	Base
	Email      string     `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Name       string     `json:"name" gorm:"type:varchar(100)"`
	IsActive   bool       `json:"isActive" gorm:"not null;default:true"`
	GlobalRole GlobalRole `json:"globalRole" gorm:"type:varchar(20);not null;default:'user'"`
}

// Membership links a user to a tenant with a role
type Membership struct {
	Base
	UserID    string  `json:"userId" gorm:"type:varchar(36);not null;uniqueIndex:idx_membership_user_tenant"`
	TenantID  string  `json:"tenantId" gorm:"type:varchar(36);not null;uniqueIndex:idx_membership_user_tenant;index"`
	Role      string  `json:"role" gorm:"type:varchar(20);not null;default:'viewer'"`
	IsPrimary bool    `json:"isPrimary" gorm:"not null;default:false"`
	Tenant    *Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
}

// Job is an open position
type Job struct {
	Base
	TenantOwned
	Title          string   `json:"title" gorm:"type:varchar(200);not null"`
	Location       string   `json:"location" gorm:"type:varchar(200)"`
	RequiredSkills []string `json:"requiredSkills" gorm:"type:text;serializer:json"`
	HiringMode     string   `json:"hiringMode" gorm:"type:varchar(20)"`
	Status         string   `json:"status" gorm:"type:varchar(20);not null;default:'open'"`
	Visibility     string   `json:"visibility" gorm:"type:varchar(20);not null;default:'internal'"`
}

// Candidate is a person known to a tenant. Email is unique per tenant.
type Candidate struct {
	Base
	TenantID    string `json:"tenantId" gorm:"type:varchar(36);not null;uniqueIndex:idx_candidate_tenant_email"`
	Email       string `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:idx_candidate_tenant_email"`
	Name        string `json:"name" gorm:"type:varchar(200)"`
	Location    string `json:"location" gorm:"type:varchar(200)"`
	LinkedInURL string `json:"linkedInUrl" gorm:"type:varchar(500)"`
}

func (c *Candidate) GetTenantID() string   { return c.TenantID }
func (c *Candidate) SetTenantID(id string) { c.TenantID = id }

// Application ties a candidate to a job
type Application struct {
	Base
	TenantOwned
	JobID          string `json:"jobId" gorm:"type:varchar(36);not null;index"`
	CandidateID    string `json:"candidateId" gorm:"type:varchar(36);not null;index"`
	CVRef          string `json:"cvRef" gorm:"type:varchar(500)"`
	HasCoverLetter bool   `json:"hasCoverLetter"`
	Location       string `json:"location" gorm:"type:varchar(200)"`
	LinkedInURL    string `json:"linkedInUrl" gorm:"type:varchar(500)"`
	Stage          string `json:"stage" gorm:"type:varchar(30);not null;default:'applied'"`
}

type Note struct {
	Base
	TenantOwned
	ApplicationID string `json:"applicationId" gorm:"type:varchar(36);index"`
	AuthorID      string `json:"authorId" gorm:"type:varchar(36)"`
	Body          string `json:"body" gorm:"type:text"`
}

type Tag struct {
	Base
	TenantOwned
	Name  string `json:"name" gorm:"type:varchar(50);not null"`
	Color string `json:"color" gorm:"type:varchar(20)"`
}

type EmailTemplate struct {
	Base
	TenantOwned
	Name    string `json:"name" gorm:"type:varchar(100);not null"`
	Subject string `json:"subject" gorm:"type:varchar(255)"`
	Body    string `json:"body" gorm:"type:text"`
}

// ActivityLog records who did what to which entity
type ActivityLog struct {
	Base
	TenantOwned
	ActorID    string `json:"actorId" gorm:"type:varchar(36)"`
	Action     string `json:"action" gorm:"type:varchar(50);not null"`
	EntityType string `json:"entityType" gorm:"type:varchar(50)"`
	EntityID   string `json:"entityId" gorm:"type:varchar(36);index"`
	Detail     string `json:"detail" gorm:"type:text"`
}

// ScoringEvent is one evaluator result. Events are never edited or removed.
type ScoringEvent struct {
	Base
	TenantOwned
	ApplicationID  string   `json:"applicationId" gorm:"type:varchar(36);not null;index"`
	Score          int      `json:"score"`
	Tier           string   `json:"tier" gorm:"type:varchar(2)"`
	Reason         string   `json:"reason" gorm:"type:text"`
	InterviewFocus []string `json:"interviewFocus" gorm:"type:text;serializer:json"`
	EngineVersion  string   `json:"engineVersion" gorm:"type:varchar(50)"`
}

func (*ScoringEvent) BeforeUpdate(*gorm.DB) error { return cnst.ErrImmutableRecord }
func (*ScoringEvent) BeforeDelete(*gorm.DB) error { return cnst.ErrImmutableRecord }

// Models lists every table, in migration order
func Models() []any {
	return []any{
		&Tenant{}, &User{}, &Membership{},
		&Job{}, &Candidate{}, &Application{},
		&Note{}, &Tag{}, &EmailTemplate{}, &ActivityLog{},
		&ScoringEvent{},
	}
}
