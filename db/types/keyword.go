package types

// SqlKeyWord is an operator or function understood by the renderers in db/expr.
type SqlKeyWord string

const (
	And     SqlKeyWord = "AND"
	Or      SqlKeyWord = "OR"
	Not     SqlKeyWord = "NOT"
	In      SqlKeyWord = "IN"
	NotIn   SqlKeyWord = "NOT IN"
	Like    SqlKeyWord = "LIKE"
	NotLike SqlKeyWord = "NOT LIKE"
	Eq      SqlKeyWord = "="
	Ne      SqlKeyWord = "<>"
	Gt      SqlKeyWord = ">"
	Ge      SqlKeyWord = ">="
	Lt      SqlKeyWord = "<"
	Le      SqlKeyWord = "<="
	Between SqlKeyWord = "BETWEEN"

	IsNull    SqlKeyWord = "IS NULL"
	IsNotNull SqlKeyWord = "IS NOT NULL"

	Count         SqlKeyWord = "COUNT"
	CountDistinct SqlKeyWord = "COUNT DISTINCT"
	CountAll      SqlKeyWord = "COUNT(*)"
	Sum           SqlKeyWord = "SUM"
	Avg           SqlKeyWord = "AVG"
	Max           SqlKeyWord = "MAX"
	Min           SqlKeyWord = "MIN"
	Lower         SqlKeyWord = "LOWER"
	Upper         SqlKeyWord = "UPPER"

	GroupBy SqlKeyWord = "GROUP BY"
	Asc     SqlKeyWord = "ASC"
	Desc    SqlKeyWord = "DESC"
)

// LikeEscape is the escape character used for Like/StartsWith/Contains patterns.
const LikeEscape = '!'
