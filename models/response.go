package models

const (
	StatusSuccess = 0
	StatusFailure = 1
)

// Pagination describes one page of a filtered listing.
type Pagination struct {
	TotalElements int64 `json:"totalElements"`
	CurrentPage   int   `json:"currentPage"`
	PageSize      int   `json:"pageSize"`
	TotalPages    int   `json:"totalPages"`
}

// NewPagination computes TotalPages as ceil(total/size). A non-positive
// size yields zero pages.
func NewPagination(total int64, page, size int) Pagination {
	p := Pagination{
		TotalElements: total,
		CurrentPage:   page,
		PageSize:      size,
	}
	if size > 0 {
		p.TotalPages = int((total + int64(size) - 1) / int64(size))
	}
	return p
}

// Response is the envelope every /api/v1/tasks endpoint answers with.
// Status 0 carries Object (and Pagination for listings); status 1 carries
// only Message.
type Response[T any] struct {
	Status     int         `json:"status"`
	Message    string      `json:"message"`
	Object     T           `json:"object"`
	Pagination *Pagination `json:"pagination"`
}

func Success[T any](message string, object T) Response[T] {
	return Response[T]{Status: StatusSuccess, Message: message, Object: object}
}

func Paged[T any](message string, items []T, p Pagination) Response[[]T] {
	return Response[[]T]{Status: StatusSuccess, Message: message, Object: items, Pagination: &p}
}

func Failure(message string) Response[any] {
	return Response[any]{Status: StatusFailure, Message: message}
}
