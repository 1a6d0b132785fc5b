package entities

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Book struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	ISBN   string `gorm:"column:isbn;uniqueIndex;size:20;not null" json:"isbn"`
	Title  string `gorm:"index;size:512;not null" json:"title"`
	Author string `gorm:"index;size:256;not null" json:"author"`
	Year   int    `json:"year"`
}

type Review struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ReviewText  string    `gorm:"type:text;not null" json:"review_text"`
	ReviewScore int       `gorm:"not null" json:"review_score"`
	BookID      uint      `gorm:"column:books_id;index:idx_reviews_book_user;not null" json:"books_id"`
	UserID      uint      `gorm:"column:users_id;index:idx_reviews_book_user;not null" json:"users_id"`
	Book        Book      `gorm:"foreignKey:BookID" json:"-"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookReview is a review joined with the username of its author.
type BookReview struct {
	Username    string `json:"username"`
	ReviewText  string `json:"review_text"`
	ReviewScore int    `json:"review_score"`
}

const (
	MinReviewScore = 1
	MaxReviewScore = 5
)
