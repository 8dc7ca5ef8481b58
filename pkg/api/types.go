// Package api holds the data transfer objects exchanged with the library
// backend. Dates are kept as the ISO strings the backend sends.
package api

// Page is a Spring Data page of T.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parentId,omitempty"`
}

type Author struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Name      string `json:"name,omitempty"`
}

type Book struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	PublicationYear int       `json:"publicationYear,omitempty"`
	ISBN            string    `json:"isbn,omitempty"`
	Category        *Category `json:"category,omitempty"`
	Authors         []Author  `json:"authors,omitempty"`
	IsActive        *bool     `json:"isActive,omitempty"`
	TotalCopies     int       `json:"totalCopies"`
	AvailableCopies int       `json:"availableCopies"`
}

// BookRequest creates or updates a book.
type BookRequest struct {
	Title           string  `json:"title" validate:"required,notblank"`
	Description     string  `json:"description"`
	PublicationYear int     `json:"publicationYear" validate:"required,gt=0"`
	ISBN            string  `json:"isbn" validate:"required,notblank"`
	CategoryID      *int64  `json:"categoryId"`
	AuthorIDs       []int64 `json:"authorIds"`
	InitialCopies   *int    `json:"initialCopies,omitempty" validate:"omitempty,gte=0"`
}

// AuthorRequest creates or updates an author.
type AuthorRequest struct {
	FirstName string `json:"firstName" validate:"required,notblank"`
	LastName  string `json:"lastName" validate:"required,notblank"`
}

type UserSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type BookSummary struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Authors []Author `json:"authors,omitempty"`
}

type BookCopySummary struct {
	ID            int64        `json:"id"`
	InventoryCode string       `json:"inventoryCode"`
	Book          *BookSummary `json:"book,omitempty"`
}

// Loan statuses.
const (
	LoanActive          = "ACTIVE"
	LoanOverdue         = "OVERDUE"
	LoanReturnRequested = "RETURN_REQUESTED"
	LoanReturnRejected  = "RETURN_REJECTED"
	LoanReturned        = "RETURNED"
	LoanLost            = "LOST"
)

type Loan struct {
	ID              int64            `json:"id"`
	User            *UserSummary     `json:"user,omitempty"`
	BookCopy        *BookCopySummary `json:"bookCopy,omitempty"`
	LoanDate        string           `json:"loanDate,omitempty"`
	DueDate         string           `json:"dueDate,omitempty"`
	ReturnDate      string           `json:"returnDate,omitempty"`
	Status          string           `json:"status"`
	ExtensionsCount int              `json:"extensionsCount"`
}

// LoanUpdate is applied by an administrator to an existing loan.
type LoanUpdate struct {
	Status     string `schema:"status,omitempty" validate:"omitempty,oneof=ACTIVE OVERDUE RETURN_REQUESTED RETURN_REJECTED RETURNED LOST"`
	DueDate    string `schema:"dueDate,omitempty"`
	ReturnDate string `schema:"returnDate,omitempty"`
}

// LoanCreate opens a loan on behalf of a user.
type LoanCreate struct {
	UserID     int64  `schema:"userId" validate:"required,gt=0"`
	BookCopyID int64  `schema:"bookCopyId" validate:"required,gt=0"`
	DueDate    string `schema:"dueDate,omitempty"`
}

// User roles and statuses.
const (
	RoleAdmin     = "ADMIN"
	RoleReader    = "READER"
	StatusActive  = "ACTIVE"
	StatusBlocked = "BLOCKED"
)

type User struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Role          string `json:"role"`
	Status        string `json:"status"`
	BlockedReason string `json:"blockedReason,omitempty"`
	BlockedUntil  string `json:"blockedUntil,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// UserUpdate edits an account's profile, role and status.
type UserUpdate struct {
	FirstName string `json:"firstName" validate:"required,notblank"`
	LastName  string `json:"lastName" validate:"required,notblank"`
	Email     string `json:"email" validate:"required,notblank,email"`
	Role      string `json:"role" validate:"required,oneof=ADMIN READER"`
	Status    string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE BLOCKED"`
}

// UserStatusUpdate blocks or unblocks a user.
type UserStatusUpdate struct {
	Status        string `json:"status" validate:"required,oneof=ACTIVE BLOCKED"`
	BlockedReason string `json:"blockedReason,omitempty"`
	BlockedUntil  string `json:"blockedUntil,omitempty"`
}

// PasswordReset is returned when an administrator resets a password.
type PasswordReset struct {
	TemporaryPassword string `json:"temporaryPassword"`
}

// Penalty statuses.
const (
	PenaltyOpen      = "OPEN"
	PenaltyPaid      = "PAID"
	PenaltyCancelled = "CANCELLED"
)

type Penalty struct {
	ID         int64        `json:"id"`
	User       *UserSummary `json:"user,omitempty"`
	UserID     int64        `json:"userId,omitempty"`
	LoanID     int64        `json:"loanId,omitempty"`
	Amount     float64      `json:"amount"`
	Reason     string       `json:"reason,omitempty"`
	Status     string       `json:"status"`
	CreatedAt  string       `json:"createdAt,omitempty"`
	IssuedAt   string       `json:"issuedAt,omitempty"`
	ResolvedAt string       `json:"resolvedAt,omitempty"`
	Paid       bool         `json:"paid"`
}

// PenaltyRequest issues a penalty.
type PenaltyRequest struct {
	UserID int64   `json:"userId" validate:"required,gt=0"`
	LoanID int64   `json:"loanId" validate:"required,gt=0"`
	Amount float64 `json:"amount" validate:"gt=0"`
	Reason string  `json:"reason"`
}

type PopularBook struct {
	BookID     int64  `json:"bookId"`
	Title      string `json:"title"`
	LoansCount int64  `json:"loansCount"`
}

type StatsSummary struct {
	TotalLoans       int64         `json:"totalLoans"`
	NewUsers         int64         `json:"newUsers"`
	ActiveUsers      int64         `json:"activeUsers"`
	OverdueLoans     int64         `json:"overdueLoans"`
	MostPopularBooks []PopularBook `json:"mostPopularBooks"`
}

type LoansPerDay struct {
	Day        string `json:"day"`
	LoansCount int64  `json:"loansCount"`
}
