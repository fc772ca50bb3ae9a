package book

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// 列表查询参数
// 设计说明：
// 1. select、sort、page、limit为保留参数，其余参数视为字段过滤条件
// 2. 过滤语法：field=value（等值）或 field[op]=value，op ∈ gt/gte/lt/lte/in
// 3. 只有白名单内的字段可以过滤、排序、投影，值按字段类型解析后再交给Repository
//    （字段名和运算符都来自白名单，不会拼接任意用户输入）
// 4. 未知字段直接忽略；运算符非法或值无法解析时返回ErrInvalidQuery

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// SearchLimit 搜索结果上限
	SearchLimit = 10
)

// Operator 比较运算符
type Operator string

const (
	OpEq  Operator = "eq"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
	OpIn  Operator = "in"
)

var operators = map[Operator]bool{OpEq: true, OpGt: true, OpGte: true, OpLt: true, OpLte: true, OpIn: true}

// FieldKind 字段值类型
type FieldKind int

const (
	KindString FieldKind = iota
	KindInt
	KindFloat
	KindTime
	KindID
)

// Fields 可过滤、排序、投影的字段（API字段名即数据库列名）
var Fields = map[string]FieldKind{
	"id":             KindID,
	"title":          KindString,
	"author":         KindString,
	"genre":          KindString,
	"description":    KindString,
	"published_year": KindInt,
	"average_rating": KindFloat,
	"user_id":        KindID,
	"created_at":     KindTime,
	"updated_at":     KindTime,
}

var reserved = map[string]bool{"select": true, "sort": true, "page": true, "limit": true}

// filterKeyRe 匹配 field 或 field[op]
var filterKeyRe = regexp.MustCompile(`^([a-z_]+)(?:\[([a-z]+)\])?$`)

// Filter 单个过滤条件
// Op为OpIn时Values可包含多个值，其余运算符只有一个值
type Filter struct {
	Field  string
	Op     Operator
	Values []interface{}
}

// SortField 排序字段
type SortField struct {
	Field string
	Desc  bool
}

// Query 列表查询条件
type Query struct {
	Filters []Filter
	Sort    []SortField
	Select  []string // 为空表示返回全部字段
	Page    int
	Limit   int
}

// Offset 分页偏移量
func (q Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// DefaultQuery 无任何参数时的查询条件
func DefaultQuery() Query {
	return Query{
		Sort:  defaultSort(),
		Page:  DefaultPage,
		Limit: DefaultLimit,
	}
}

func defaultSort() []SortField {
	return []SortField{{Field: "created_at", Desc: true}, {Field: "id", Desc: true}}
}

// ParseQuery 解析URL查询参数
func ParseQuery(values url.Values) (Query, error) {
	q := DefaultQuery()

	// 1. 过滤条件
	for key, vals := range values {
		if reserved[key] || len(vals) == 0 {
			continue
		}
		m := filterKeyRe.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		field, op := m[1], Operator(m[2])
		kind, ok := Fields[field]
		if !ok {
			continue
		}
		if op == "" {
			op = OpEq
		}
		if !operators[op] {
			return Query{}, invalidQuery("不支持的运算符: %s", key)
		}

		filter, err := parseFilter(field, kind, op, vals[0])
		if err != nil {
			return Query{}, err
		}
		q.Filters = append(q.Filters, filter)
	}
	// map遍历顺序随机，排序后生成的SQL才稳定
	sort.Slice(q.Filters, func(i, j int) bool {
		if q.Filters[i].Field != q.Filters[j].Field {
			return q.Filters[i].Field < q.Filters[j].Field
		}
		return q.Filters[i].Op < q.Filters[j].Op
	})

	// 2. 排序
	if s := values.Get("sort"); s != "" {
		if parsed := parseSort(s); len(parsed) > 0 {
			q.Sort = parsed
		}
	}

	// 3. 投影
	if s := values.Get("select"); s != "" {
		q.Select = parseSelect(s)
	}

	// 4. 分页（非法值回退为默认值）
	q.Page = positiveInt(values.Get("page"), DefaultPage)
	q.Limit = positiveInt(values.Get("limit"), DefaultLimit)
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}

	return q, nil
}

func parseFilter(field string, kind FieldKind, op Operator, raw string) (Filter, error) {
	raws := []string{raw}
	if op == OpIn {
		raws = strings.Split(raw, ",")
	}

	filter := Filter{Field: field, Op: op, Values: make([]interface{}, 0, len(raws))}
	for _, r := range raws {
		r = strings.TrimSpace(r)
		v, err := parseValue(kind, r)
		if err != nil {
			return Filter{}, invalidQuery("%s的取值非法: %q", field, r)
		}
		filter.Values = append(filter.Values, v)
	}
	return filter, nil
}

func parseValue(kind FieldKind, raw string) (interface{}, error) {
	switch kind {
	case KindInt:
		return strconv.Atoi(raw)
	case KindFloat:
		return strconv.ParseFloat(raw, 64)
	case KindID:
		id, err := strconv.ParseUint(raw, 10, 64)
		return uint(id), err
	case KindTime:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, nil
		}
		return time.ParseInLocation("2006-01-02", raw, time.Local)
	default:
		return raw, nil
	}
}

// parseSort 解析 "-published_year,title"
// 未知字段忽略；未显式指定id时追加id作为稳定排序的兜底
func parseSort(s string) []SortField {
	var fields []SortField
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		if _, ok := Fields[name]; !ok || seen[name] {
			continue
		}
		seen[name] = true
		fields = append(fields, SortField{Field: name, Desc: desc})
	}
	if len(fields) > 0 && !seen["id"] {
		fields = append(fields, SortField{Field: "id", Desc: fields[len(fields)-1].Desc})
	}
	return fields
}

// parseSelect 解析 "title,author"，id始终包含在结果中
func parseSelect(s string) []string {
	selected := []string{"id"}
	seen := map[string]bool{"id": true}
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if _, ok := Fields[name]; !ok || seen[name] {
			continue
		}
		seen[name] = true
		selected = append(selected, name)
	}
	return selected
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func invalidQuery(format string, args ...interface{}) error {
	return apperrors.WithMessage(ErrInvalidQuery, fmt.Sprintf(format, args...))
}
