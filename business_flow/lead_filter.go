// Package businessflow contains the core business logic and use cases for lead and customer workflows
package businessflow

import (
	"github.com/leadkit/leadkit/app/dto"
	"github.com/leadkit/leadkit/app/services"
)

// FilterPosts applies every criterion conjunctively and returns the posts that
// satisfy all of them, preserving input order. An empty criteria list passes
// every post. A post whose author profile is absent from the batch is treated
// as having zero followers, so it survives a follower criterion only when the
// threshold is zero. Criteria of unknown kind pass vacuously.
func FilterPosts(posts []services.RawPost, authors map[string]services.AuthorProfile, criteria []dto.FilterCriterion) []services.RawPost {
	if len(criteria) == 0 {
		return posts
	}

	matched := make([]services.RawPost, 0, len(posts))
	for _, post := range posts {
		if postMatches(post, authors, criteria) {
			matched = append(matched, post)
		}
	}
	return matched
}

func postMatches(post services.RawPost, authors map[string]services.AuthorProfile, criteria []dto.FilterCriterion) bool {
	for _, criterion := range criteria {
		switch criterion.Type {
		case dto.CriterionFollowerCount:
			followers := 0
			if author, ok := authors[post.AuthorID]; ok {
				followers = author.FollowerCount
			}
			if followers < criterion.MinFollowers {
				return false
			}
		case dto.CriterionEngagement:
			if post.RetweetCount+post.LikeCount < criterion.MinEngagement {
				return false
			}
		}
	}
	return true
}
