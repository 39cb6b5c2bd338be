package memstore

import (
	"context"
	"sort"

	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/store"
)

type voteRepo struct{ s *Store }

func (r voteRepo) Upsert(_ context.Context, vote *models.ProfileVote) error {
	defer r.s.lock()()
	d := r.s.d
	if _, ok := d.users[vote.VoterID]; !ok {
		return store.ErrNotFound
	}
	if _, ok := d.profiles[vote.ProfileID]; !ok {
		return store.ErrNotFound
	}
	for id, v := range d.votes {
		if v.VoterID == vote.VoterID && v.ProfileID == vote.ProfileID {
			v.IsUpvote = vote.IsUpvote
			v.UpdatedAt = r.s.now()
			d.votes[id] = v
			*vote = v
			return nil
		}
	}
	vote.ID = d.next("votes")
	vote.UpdatedAt = r.s.stamp(&vote.CreatedAt)
	row := *vote
	row.Voter = models.User{}
	row.Profile = models.Profile{}
	d.votes[vote.ID] = row
	return nil
}

func (r voteRepo) Get(_ context.Context, voterID, profileID uint) (*models.ProfileVote, error) {
	defer r.s.rlock()()
	for _, v := range r.s.d.votes {
		if v.VoterID == voterID && v.ProfileID == profileID {
			return &v, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r voteRepo) Delete(_ context.Context, voterID, profileID uint) error {
	defer r.s.lock()()
	for id, v := range r.s.d.votes {
		if v.VoterID == voterID && v.ProfileID == profileID {
			delete(r.s.d.votes, id)
			return nil
		}
	}
	return store.ErrNotFound
}

func (r voteRepo) Tally(_ context.Context, profileIDs []uint) (map[uint]int64, error) {
	defer r.s.rlock()()
	wanted := idSet(profileIDs)
	out := make(map[uint]int64)
	for _, v := range r.s.d.votes {
		if wanted[v.ProfileID] {
			out[v.ProfileID] += v.Weight()
		}
	}
	return out, nil
}

func (r voteRepo) ByVoter(_ context.Context, voterID uint, profileIDs []uint) (map[uint]models.ProfileVote, error) {
	defer r.s.rlock()()
	wanted := idSet(profileIDs)
	out := make(map[uint]models.ProfileVote)
	for _, v := range r.s.d.votes {
		if v.VoterID == voterID && wanted[v.ProfileID] {
			out[v.ProfileID] = v
		}
	}
	return out, nil
}

type commentRepo struct{ s *Store }

func (r commentRepo) Create(_ context.Context, c *models.ProfileComment) error {
	defer r.s.lock()()
	d := r.s.d
	if _, ok := d.users[c.CommenterID]; !ok {
		return store.ErrNotFound
	}
	if _, ok := d.profiles[c.ProfileID]; !ok {
		return store.ErrNotFound
	}
	for _, existing := range d.comments {
		if existing.CommenterID == c.CommenterID && existing.ProfileID == c.ProfileID {
			return store.ErrDuplicate
		}
	}
	c.ID = d.next("comments")
	c.UpdatedAt = r.s.stamp(&c.CreatedAt)
	row := *c
	row.Commenter = models.User{}
	row.Profile = models.Profile{}
	d.comments[c.ID] = row
	c.Commenter = d.users[c.CommenterID]
	return nil
}

func (r commentRepo) Get(_ context.Context, id uint) (*models.ProfileComment, error) {
	defer r.s.rlock()()
	c, ok := r.s.d.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c.Commenter = r.s.d.users[c.CommenterID]
	return &c, nil
}

func (r commentRepo) Update(_ context.Context, c *models.ProfileComment) error {
	defer r.s.lock()()
	existing, ok := r.s.d.comments[c.ID]
	if !ok {
		return store.ErrNotFound
	}
	existing.Comment = c.Comment
	existing.UpdatedAt = r.s.now()
	r.s.d.comments[c.ID] = existing
	c.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r commentRepo) Delete(_ context.Context, id uint) error {
	defer r.s.lock()()
	if _, ok := r.s.d.comments[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.s.d.comments, id)
	return nil
}

func (r commentRepo) ListForProfile(_ context.Context, profileID uint) ([]models.ProfileComment, error) {
	defer r.s.rlock()()
	out := []models.ProfileComment{}
	for _, id := range sortedKeys(r.s.d.comments) {
		c := r.s.d.comments[id]
		if c.ProfileID != profileID {
			continue
		}
		c.Commenter = r.s.d.users[c.CommenterID]
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type friendshipRepo struct{ s *Store }

func (r friendshipRepo) Create(_ context.Context, f *models.Friendship) error {
	defer r.s.lock()()
	d := r.s.d
	if _, ok := d.users[f.SenderID]; !ok {
		return store.ErrNotFound
	}
	if _, ok := d.users[f.ReceiverID]; !ok {
		return store.ErrNotFound
	}
	if f.Status == "" {
		f.Status = models.StatusPending
	}
	if f.Status.Active() {
		for _, other := range d.friendships {
			if other.Status.Active() && samePair(other, *f) {
				return store.ErrDuplicate
			}
		}
	}
	f.ID = d.next("friendships")
	f.UpdatedAt = r.s.stamp(&f.CreatedAt)
	d.friendships[f.ID] = stripFriendship(*f)
	return nil
}

func samePair(a, b models.Friendship) bool {
	return (a.SenderID == b.SenderID && a.ReceiverID == b.ReceiverID) ||
		(a.SenderID == b.ReceiverID && a.ReceiverID == b.SenderID)
}

func (r friendshipRepo) Get(_ context.Context, id uint) (*models.Friendship, error) {
	defer r.s.rlock()()
	f, ok := r.s.d.friendships[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	f = r.s.d.hydrateFriendship(f)
	return &f, nil
}

func (r friendshipRepo) Between(_ context.Context, a, b uint) ([]models.Friendship, error) {
	defer r.s.rlock()()
	var out []models.Friendship
	for _, id := range sortedKeys(r.s.d.friendships) {
		f := r.s.d.friendships[id]
		if (f.SenderID == a && f.ReceiverID == b) || (f.SenderID == b && f.ReceiverID == a) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r friendshipRepo) UpdateStatus(_ context.Context, id uint, status models.FriendshipStatus) error {
	defer r.s.lock()()
	f, ok := r.s.d.friendships[id]
	if !ok {
		return store.ErrNotFound
	}
	f.Status = status
	f.UpdatedAt = r.s.now()
	r.s.d.friendships[id] = f
	return nil
}

func (r friendshipRepo) List(_ context.Context, filter store.FriendshipFilter) ([]models.Friendship, error) {
	defer r.s.rlock()()
	out := []models.Friendship{}
	for _, f := range r.s.d.friendships {
		switch filter.Direction {
		case store.DirectionIncoming:
			if f.ReceiverID != filter.UserID {
				continue
			}
		case store.DirectionOutgoing:
			if f.SenderID != filter.UserID {
				continue
			}
		default:
			if !f.Involves(filter.UserID) {
				continue
			}
		}
		if filter.Status != "" && f.Status != filter.Status {
			continue
		}
		out = append(out, r.s.d.hydrateFriendship(f))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (d *data) hydrateFriendship(f models.Friendship) models.Friendship {
	f.Sender = d.users[f.SenderID]
	f.Receiver = d.users[f.ReceiverID]
	return f
}

func stripFriendship(f models.Friendship) models.Friendship {
	f.Sender = models.User{}
	f.Receiver = models.User{}
	return f
}

func idSet(ids []uint) map[uint]bool {
	out := make(map[uint]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
