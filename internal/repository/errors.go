package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")

	//一意制約違反（レビュー重複・お気に入り重複など）
	ErrConflict = errors.New("conflict")
)
