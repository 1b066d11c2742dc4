package query

import (
	"github.com/dongjun6343/query/db/expr"
)

// Paging is a page request: 1-based page number, page size and the order
// the pages are cut from.
type Paging struct {
	pageSize int
	pageNum  int
	orders   []*expr.OrderSpecifier
}

func NewPaging(currentPage, pageSize int) *Paging {
	return &Paging{
		pageNum:  currentPage,
		pageSize: pageSize,
	}
}

func (p *Paging) SetPageSize(pageSize int) *Paging {
	p.pageSize = pageSize
	return p
}

func (p *Paging) SetCurrentPage(cur int) *Paging {
	p.pageNum = cur
	return p
}

func (p *Paging) AddOrders(orders ...*expr.OrderSpecifier) *Paging {
	p.orders = append(p.orders, orders...)
	return p
}

func (p *Paging) PageNum() int {
	return p.pageNum
}

func (p *Paging) PageSize() int {
	return p.pageSize
}

func (p *Paging) Orders() []*expr.OrderSpecifier {
	return p.orders
}

// Offset is the number of rows before the page; pages start at 1.
func (p *Paging) Offset() int64 {
	if p.pageNum <= 1 || p.pageSize <= 0 {
		return 0
	}
	return int64(p.pageNum-1) * int64(p.pageSize)
}

// QueryResults is a window of rows plus the total row count of the query.
type QueryResults[T any] struct {
	Results []T
	Total   int64
	Offset  int64
	Limit   int64
}

func (r *QueryResults[T]) IsEmpty() bool {
	return len(r.Results) == 0
}

// Page is one page of records.
type Page[T any] struct {
	Records    []T
	PageNum    int
	PageSize   int
	TotalCount int64
	TotalPages int
}

func newPage[T any](p *Paging, res *QueryResults[T]) *Page[T] {
	page := &Page[T]{
		Records:    res.Results,
		PageNum:    p.pageNum,
		PageSize:   p.pageSize,
		TotalCount: res.Total,
	}
	if p.pageSize > 0 {
		totalPage := res.Total / int64(p.pageSize)
		if res.Total%int64(p.pageSize) != 0 {
			totalPage++
		}
		page.TotalPages = int(totalPage)
	}
	return page
}

func (p *Page[T]) HasNext() bool {
	return p.PageNum < p.TotalPages
}
