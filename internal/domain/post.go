package domain

type Post struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	Content            string    `json:"content"`
	Excerpt            string    `json:"excerpt"`
	Image              string    `json:"image"`
	Category           string    `json:"category"`
	Author             Author    `json:"author"`
	Date               Timestamp `json:"date"`
	Likes              int       `json:"likes"`
	Comments           int       `json:"comments"`
	Tags               []string  `json:"tags"`
	ReadTime           int       `json:"readTime,omitempty"`
	LikedByCurrentUser bool      `json:"likedByCurrentUser"`
}

// PostRequest is the body of a post creation. The backend names the excerpt "resume".
type PostRequest struct {
	Title    string   `json:"title" validate:"required,min=5,max=200"`
	Content  string   `json:"content" validate:"required,min=20"`
	Excerpt  string   `json:"resume" validate:"required,min=10,max=150"`
	Category string   `json:"category" validate:"required"`
	Image    string   `json:"image" validate:"required,url"`
	Tags     []string `json:"tags"`
}

type LikeResponse struct {
	Liked   bool   `json:"liked"`
	Message string `json:"message"`
}

// Liker is one entry of a post's like list.
type Liker struct {
	UserID   int64     `json:"userId"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar,omitempty"`
	LikedAt  Timestamp `json:"likedAt"`
}

type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	CreatedAt Timestamp `json:"createdAt"`
	CanDelete bool      `json:"canDelete"`
}

type CommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}
