package database

import (
	"time"
)

type SeenRepository interface {
	GetLiveRecords(scope string, cutoff time.Time) ([]SeenRecord, error)
	Insert(scope string, rec SeenRecord) error
	DeleteExpired(scope string, cutoff time.Time) (int64, error)
	CountLive(scope string, cutoff time.Time) (int, error)
}

type BufferRepository interface {
	Append(item BufferedItem) error
	GetAll() ([]BufferedItem, error)
	Clear() error
	Count() (int, error)
}

type DigestRepository interface {
	Insert(digest Digest) (int64, error)
	GetLatest() (*Digest, error)
	Count() (int, error)
}
