package library

// Per-kind reconciliation. The policy is deliberately explicit instead of a
// generic recursive merge: scalar payload fields overwrite when present (nil
// preserves), list fields replace the existing list wholesale when present.
// Concatenating lists would duplicate members on every refetch of the same
// entity, so replacement is what keeps repeated pagination idempotent.

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func seedSong(p SongPayload) *Song {
	s := &Song{ID: p.ID, PlaybackState: PlaybackStopped}
	reconcileSong(s, p)
	return s
}

func reconcileSong(s *Song, p SongPayload) {
	assign(&s.Title, p.Title)
	assign(&s.Lyrics, p.Lyrics)
	assign(&s.AlbumID, p.AlbumID)
	assign(&s.AlbumName, p.AlbumName)
	assign(&s.AlbumCover, p.AlbumCover)
	assign(&s.ArtistID, p.ArtistID)
	assign(&s.ArtistName, p.ArtistName)
	assign(&s.Length, p.Length)
	assign(&s.Track, p.Track)
	assign(&s.Disc, p.Disc)
	assign(&s.Liked, p.Liked)
	assign(&s.PlayCount, p.PlayCount)
	assign(&s.CreatedAt, p.CreatedAt)
}

func seedAlbum(p AlbumPayload) *Album {
	a := &Album{ID: p.ID, Songs: []*Song{}}
	reconcileAlbum(a, p)
	return a
}

func reconcileAlbum(a *Album, p AlbumPayload) {
	assign(&a.Name, p.Name)
	assign(&a.Cover, p.Cover)
	assign(&a.ArtistID, p.ArtistID)
	assign(&a.ArtistName, p.ArtistName)
	assign(&a.IsCompilation, p.IsCompilation)
	assign(&a.Length, p.Length)
	assign(&a.PlayCount, p.PlayCount)
	assign(&a.SongCount, p.SongCount)
	assign(&a.CreatedAt, p.CreatedAt)
	if p.Songs != nil {
		a.Songs = p.Songs
	}
}

func seedArtist(p ArtistPayload) *Artist {
	a := &Artist{ID: p.ID, Albums: []*Album{}, Songs: []*Song{}}
	reconcileArtist(a, p)
	return a
}

func reconcileArtist(a *Artist, p ArtistPayload) {
	assign(&a.Name, p.Name)
	assign(&a.Image, p.Image)
	assign(&a.Length, p.Length)
	assign(&a.PlayCount, p.PlayCount)
	assign(&a.SongCount, p.SongCount)
	assign(&a.AlbumCount, p.AlbumCount)
	assign(&a.CreatedAt, p.CreatedAt)
	if p.Albums != nil {
		a.Albums = p.Albums
	}
	if p.Songs != nil {
		a.Songs = p.Songs
	}
}
