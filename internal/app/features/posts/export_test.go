package posts

// LockedPosts is the number of posts with a like in progress.
func (h *Handler) LockedPosts() int {
	h.likeMu.Lock()
	defer h.likeMu.Unlock()
	return len(h.likes)
}
