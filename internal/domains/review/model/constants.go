package model

const (
	MaxPhotos        = 5
	MaxCommentLength = 2000
)
