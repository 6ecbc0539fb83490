package services

import (
	"strings"
	"testing"
	"time"

	"scitalk/internal/db"
	"scitalk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostURLTypes(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")

	for _, typ := range []models.PostType{models.PostResult, models.PostMethod, models.PostReview, models.PostTool} {
		post, err := CreatePost(author.ID, typ, "Linked "+string(typ), "https://example.org/x", "")
		require.NoError(t, err, typ)
		assert.Equal(t, 1, post.Points)
		assert.NotEmpty(t, post.Pid)

		// URL is mandatory, text is not allowed
		_, err = CreatePost(author.ID, typ, "No link", "", "")
		require.ErrorIs(t, err, ErrMissingContent, typ)
		_, err = CreatePost(author.ID, typ, "Both", "https://example.org/x", "also text")
		require.ErrorIs(t, err, ErrMissingContent, typ)
		_, err = CreatePost(author.ID, typ, "Bad scheme", "ftp://example.org/x", "")
		require.ErrorIs(t, err, ErrMissingContent, typ)
	}
}

func TestCreatePostTextTypes(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")

	for _, typ := range []models.PostType{models.PostDiscussion, models.PostAsk} {
		post, err := CreatePost(author.ID, typ, "Text "+string(typ), "", "what do you all think")
		require.NoError(t, err, typ)
		assert.Equal(t, "what do you all think", post.Text)

		// Text is mandatory, URL is not allowed
		_, err = CreatePost(author.ID, typ, "No body", "", "")
		require.ErrorIs(t, err, ErrMissingContent, typ)
		_, err = CreatePost(author.ID, typ, "Both", "https://example.org/x", "text too")
		require.ErrorIs(t, err, ErrMissingContent, typ)
		_, err = CreatePost(author.ID, typ, "Too long", "", strings.Repeat("a", models.TextMaxLen+1))
		require.ErrorIs(t, err, ErrTextTooLong, typ)
	}
}

func TestCreatePostTitleAndType(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")

	_, err := CreatePost(author.ID, "announcement", "Bad type", "", "text")
	require.ErrorIs(t, err, ErrInvalidPostType)

	_, err = CreatePost(author.ID, models.PostAsk, "", "", "text")
	require.ErrorIs(t, err, ErrMissingContent)

	_, err = CreatePost(author.ID, models.PostAsk, strings.Repeat("t", models.TitleMaxLen+1), "", "text")
	require.ErrorIs(t, err, ErrMissingContent)

	// Limits count characters, not bytes
	_, err = CreatePost(author.ID, models.PostAsk, strings.Repeat("ü", models.TitleMaxLen), "", "text")
	require.NoError(t, err)

	_, err = CreatePost(author.ID, models.PostAsk, strings.Repeat("ü", models.TitleMaxLen+1), "", "text")
	require.ErrorIs(t, err, ErrMissingContent)

	_, err = CreatePost(author.ID, models.PostAsk, "Multibyte body", "", strings.Repeat("ä", models.TextMaxLen))
	require.NoError(t, err)

	_, err = CreatePost(author.ID, models.PostAsk, "Multibyte body", "", strings.Repeat("ä", models.TextMaxLen+1))
	require.ErrorIs(t, err, ErrTextTooLong)
}

func TestGetPost(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")
	post := createTestPost(t, author, models.PostDiscussion, "Find me")

	got, err := GetPost(post.Pid)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
	assert.Equal(t, author.Handle, got.User.Handle)

	_, err = GetPost("nope1234")
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestSoftDeletePost(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")
	other := createTestUser(t, "bob")
	post := createTestPost(t, author, models.PostDiscussion, "Short lived")

	require.ErrorIs(t, SoftDeletePost(post.Pid, other.ID), ErrNotAuthor)
	require.NoError(t, SoftDeletePost(post.Pid, author.ID))
	require.ErrorIs(t, SoftDeletePost(post.Pid, author.ID), ErrPostDeleted)

	// Still fetchable by pid, just flagged
	got, err := GetPost(post.Pid)
	require.NoError(t, err)
	assert.True(t, got.Deleted())
}

func TestListPostsRecent(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")

	older := createTestPost(t, author, models.PostDiscussion, "older")
	require.NoError(t, db.DB.Model(older).UpdateColumn("created_at", time.Now().Add(-time.Hour)).Error)
	newer := createTestPost(t, author, models.PostDiscussion, "newer")

	deleted := createTestPost(t, author, models.PostDiscussion, "deleted")
	require.NoError(t, SoftDeletePost(deleted.Pid, author.ID))

	posts, total, err := ListPosts(SortRecent, "", 1, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, posts, 2)
	assert.Equal(t, newer.ID, posts[0].ID)
	assert.Equal(t, older.ID, posts[1].ID)
}

func TestListPostsActive(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")
	commenter := createTestUser(t, "bob")

	first := createTestPost(t, author, models.PostDiscussion, "first")
	second := createTestPost(t, author, models.PostDiscussion, "second")
	require.NoError(t, db.DB.Model(first).UpdateColumn("commented_at", time.Now().Add(-time.Hour)).Error)
	require.NoError(t, db.DB.Model(second).UpdateColumn("commented_at", time.Now().Add(-time.Minute)).Error)

	posts, _, err := ListPosts(SortActive, "", 1, 30)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)

	// A new comment moves the post to the front
	_, err = CreateTopLevel(commenter.ID, first.ID, "bump")
	require.NoError(t, err)

	posts, _, err = ListPosts(SortActive, "", 1, 30)
	require.NoError(t, err)
	assert.Equal(t, first.ID, posts[0].ID)
}

func TestListPostsHot(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")
	voter := createTestUser(t, "bob")

	quiet := createTestPost(t, author, models.PostDiscussion, "quiet")
	popular := createTestPost(t, author, models.PostDiscussion, "popular")
	_, err := VotePost(voter.ID, popular.ID)
	require.NoError(t, err)

	// Recompute synchronously instead of waiting on the worker
	UpdatePostScoreSync(quiet.ID)
	UpdatePostScoreSync(popular.ID)

	posts, _, err := ListPosts(SortHot, "", 1, 30)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, popular.ID, posts[0].ID)
}

func TestListPostsTypeFilter(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")
	createTestPost(t, author, models.PostDiscussion, "talk")
	tool := createTestPost(t, author, models.PostTool, "a tool")

	posts, total, err := ListPosts(SortRecent, models.PostTool, 1, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, posts, 1)
	assert.Equal(t, tool.ID, posts[0].ID)

	_, _, err = ListPosts(SortRecent, "announcement", 1, 30)
	require.ErrorIs(t, err, ErrInvalidPostType)
}

func TestListPostsPagination(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "alice")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		post := createTestPost(t, author, models.PostDiscussion, "post")
		require.NoError(t, db.DB.Model(post).
			UpdateColumn("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	page1, total, err := ListPosts(SortRecent, "", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page1, 2)

	page2, _, err := ListPosts(SortRecent, "", 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)

	// Re-issuing the same page returns the same boundary
	again, _, err := ListPosts(SortRecent, "", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, page2[0].ID, again[0].ID)
	assert.Equal(t, page2[1].ID, again[1].ID)
	assert.NotEqual(t, page1[1].ID, page2[0].ID)
}

// The canonical walkthrough: an ask post, a comment, a nested reply, and an
// upvote on the comment.
func TestAskThreadScenario(t *testing.T) {
	setupTestDB(t)
	userA := createTestUser(t, "asker")
	userB := createTestUser(t, "answerer")
	userC := createTestUser(t, "replier")
	userD := createTestUser(t, "lurker")

	post, err := CreatePost(userA.ID, models.PostAsk, "How do you normalize this data", "", "Looking for prior art")
	require.NoError(t, err)
	assert.Equal(t, 1, post.Points)

	answer, err := CreateTopLevel(userB.ID, post.ID, "We use quantile normalization")
	require.NoError(t, err)
	reply, err := CreateReply(userC.ID, answer.ID, "Does that hold for small n?")
	require.NoError(t, err)
	assert.Equal(t, 1, reply.Depth)

	_, err = VoteComment(userD.ID, answer.ID)
	require.NoError(t, err)

	var gotAnswer models.Comment
	require.NoError(t, db.DB.First(&gotAnswer, answer.ID).Error)
	assert.Equal(t, 2, gotAnswer.Points)

	var gotB models.User
	require.NoError(t, db.DB.First(&gotB, userB.ID).Error)
	assert.Equal(t, 1, gotB.Karma)

	var gotPost models.Post
	require.NoError(t, db.DB.First(&gotPost, post.ID).Error)
	assert.Equal(t, 2, gotPost.CommentCount)

	tree, err := GetTree(post.ID)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, reply.ID, tree[0].Children[0].ID)
}
