package watchlist

import "errors"

var (
	// ErrEmptyCode 新增时代码为空，列表不变，直接给用户校验提示。
	ErrEmptyCode = errors.New("watchlist: empty instrument code")
	// ErrDuplicateCode 规约键已存在，拒绝重复关注。
	ErrDuplicateCode = errors.New("watchlist: duplicate instrument code")
)
