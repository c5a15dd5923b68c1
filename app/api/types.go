package api

import (
	"time"

	"github.com/ddanilenko/newsbrief/app/database"
)

type Handler struct {
	seenRepo      database.SeenRepository
	bufferRepo    database.BufferRepository
	digestRepo    database.DigestRepository
	articleWindow time.Duration
	paperWindow   time.Duration
	version       string
}
