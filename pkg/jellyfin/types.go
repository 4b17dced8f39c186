package jellyfin

type SystemInfo struct {
	LocalAddress           string `json:"LocalAddress"`
	ServerName             string `json:"ServerName"`
	Version                string `json:"Version"`
	ProductName            string `json:"ProductName"`
	OperatingSystem        string `json:"OperatingSystem"`
	ID                     string `json:"Id"`
	StartupWizardCompleted bool   `json:"StartupWizardCompleted"`
}

// QueryResult is the wrapper Jellyfin uses for item lists.
type QueryResult[T any] struct {
	Items            []T `json:"Items"`
	TotalRecordCount int `json:"TotalRecordCount"`
	StartIndex       int `json:"StartIndex"`
}

// Collection is a library as shown in a user's views.
// Clients reject libraries with missing fields, so all of them are always set.
type Collection struct {
	Name                     string            `json:"Name"`
	ServerID                 string            `json:"ServerId"`
	ID                       string            `json:"Id"`
	Etag                     string            `json:"Etag"`
	DateCreated              string            `json:"DateCreated"`
	CanDelete                bool              `json:"CanDelete"`
	CanDownload              bool              `json:"CanDownload"`
	SortName                 string            `json:"SortName"`
	ExternalUrls             []string          `json:"ExternalUrls"`
	Path                     string            `json:"Path"`
	EnableMediaSourceDisplay bool              `json:"EnableMediaSourceDisplay"`
	ChannelID                *string           `json:"ChannelId"`
	Taglines                 []string          `json:"Taglines"`
	Genres                   []string          `json:"Genres"`
	PlayAccess               string            `json:"PlayAccess"`
	RemoteTrailers           []string          `json:"RemoteTrailers"`
	ProviderIDs              map[string]string `json:"ProviderIds"`
	IsFolder                 bool              `json:"IsFolder"`
	ParentID                 string            `json:"ParentId"`
	Type                     string            `json:"Type"`
	People                   []string          `json:"People"`
	Studios                  []string          `json:"Studios"`
	GenreItems               []string          `json:"GenreItems"`
	LocalTrailerCount        int               `json:"LocalTrailerCount"`
	UserData                 UserData          `json:"UserData"`
	ChildCount               int               `json:"ChildCount"`
	SpecialFeatureCount      int               `json:"SpecialFeatureCount"`
	DisplayPreferencesID     string            `json:"DisplayPreferencesId"`
	Tags                     []string          `json:"Tags"`
	PrimaryImageAspectRatio  float64           `json:"PrimaryImageAspectRatio"`
	CollectionType           string            `json:"CollectionType"`
	ImageTags                ImageTags         `json:"ImageTags"`
	BackdropImageTags        []string          `json:"BackdropImageTags"`
	ImageBlurHashes          ImageBlurHashes   `json:"ImageBlurHashes"`
	LocationType             string            `json:"LocationType"`
	MediaType                string            `json:"MediaType"`
	LockedFields             []string          `json:"LockedFields"`
	LockData                 bool              `json:"LockData"`
}

// Item is a single entry of a collection.
type Item struct {
	Name              string            `json:"Name"`
	ServerID          string            `json:"ServerId"`
	ID                string            `json:"Id"`
	Etag              string            `json:"Etag"`
	DateCreated       string            `json:"DateCreated"`
	CanDelete         bool              `json:"CanDelete"`
	CanDownload       bool              `json:"CanDownload"`
	SortName          string            `json:"SortName"`
	ParentID          string            `json:"ParentId"`
	Type              string            `json:"Type"`
	IsFolder          bool              `json:"IsFolder"`
	PlayAccess        string            `json:"PlayAccess"`
	ProviderIDs       map[string]string `json:"ProviderIds"`
	UserData          UserData          `json:"UserData"`
	ImageTags         map[string]string `json:"ImageTags"`
	BackdropImageTags []string          `json:"BackdropImageTags"`
	LocationType      string            `json:"LocationType"`
	MediaType         string            `json:"MediaType"`
}

type UserData struct {
	PlaybackPositionTicks int64  `json:"PlaybackPositionTicks"`
	PlayCount             int    `json:"PlayCount"`
	IsFavorite            bool   `json:"IsFavorite"`
	Played                bool   `json:"Played"`
	Key                   string `json:"Key"`
	ItemID                string `json:"ItemId"`
}

type ImageTags struct {
	Primary string `json:"Primary"`
}

type ImageBlurHashes struct {
	Primary map[string]string `json:"Primary"`
}

type AuthenticationResponse struct {
	User        User        `json:"User"`
	SessionInfo SessionInfo `json:"SessionInfo"`
	AccessToken string      `json:"AccessToken"`
	ServerID    string      `json:"ServerId"`
}

type User struct {
	Name                      string        `json:"Name"`
	ServerID                  string        `json:"ServerId"`
	ID                        string        `json:"Id"`
	HasPassword               bool          `json:"HasPassword"`
	HasConfiguredPassword     bool          `json:"HasConfiguredPassword"`
	HasConfiguredEasyPassword bool          `json:"HasConfiguredEasyPassword"`
	EnableAutoLogin           bool          `json:"EnableAutoLogin"`
	LastLoginDate             string        `json:"LastLoginDate"`
	LastActivityDate          string        `json:"LastActivityDate"`
	Configuration             Configuration `json:"Configuration"`
	Policy                    Policy        `json:"Policy"`
}

type Configuration struct {
	AudioLanguagePreference    string   `json:"AudioLanguagePreference"`
	PlayDefaultAudioTrack      bool     `json:"PlayDefaultAudioTrack"`
	SubtitleLanguagePreference string   `json:"SubtitleLanguagePreference"`
	DisplayMissingEpisodes     bool     `json:"DisplayMissingEpisodes"`
	GroupedFolders             []string `json:"GroupedFolders"`
	SubtitleMode               string   `json:"SubtitleMode"`
	DisplayCollectionsView     bool     `json:"DisplayCollectionsView"`
	EnableLocalPassword        bool     `json:"EnableLocalPassword"`
	OrderedViews               []string `json:"OrderedViews"`
	LatestItemsExcludes        []string `json:"LatestItemsExcludes"`
	MyMediaExcludes            []string `json:"MyMediaExcludes"`
	HidePlayedInLatest         bool     `json:"HidePlayedInLatest"`
	RememberAudioSelections    bool     `json:"RememberAudioSelections"`
	RememberSubtitleSelections bool     `json:"RememberSubtitleSelections"`
	EnableNextEpisodeAutoPlay  bool     `json:"EnableNextEpisodeAutoPlay"`
	CastReceiverID             string   `json:"CastReceiverId"`
}

type Policy struct {
	IsAdministrator                  bool     `json:"IsAdministrator"`
	IsHidden                         bool     `json:"IsHidden"`
	EnableCollectionManagement       bool     `json:"EnableCollectionManagement"`
	EnableSubtitleManagement         bool     `json:"EnableSubtitleManagement"`
	EnableLyricManagement            bool     `json:"EnableLyricManagement"`
	IsDisabled                       bool     `json:"IsDisabled"`
	BlockedTags                      []string `json:"BlockedTags"`
	AllowedTags                      []string `json:"AllowedTags"`
	EnableUserPreferenceAccess       bool     `json:"EnableUserPreferenceAccess"`
	AccessSchedules                  []string `json:"AccessSchedules"`
	BlockUnratedItems                []string `json:"BlockUnratedItems"`
	EnableRemoteControlOfOtherUsers  bool     `json:"EnableRemoteControlOfOtherUsers"`
	EnableSharedDeviceControl        bool     `json:"EnableSharedDeviceControl"`
	EnableRemoteAccess               bool     `json:"EnableRemoteAccess"`
	EnableLiveTvManagement           bool     `json:"EnableLiveTvManagement"`
	EnableLiveTvAccess               bool     `json:"EnableLiveTvAccess"`
	EnableMediaPlayback              bool     `json:"EnableMediaPlayback"`
	EnableAudioPlaybackTranscoding   bool     `json:"EnableAudioPlaybackTranscoding"`
	EnableVideoPlaybackTranscoding   bool     `json:"EnableVideoPlaybackTranscoding"`
	EnablePlaybackRemuxing           bool     `json:"EnablePlaybackRemuxing"`
	ForceRemoteSourceTranscoding     bool     `json:"ForceRemoteSourceTranscoding"`
	EnableContentDeletion            bool     `json:"EnableContentDeletion"`
	EnableContentDeletionFromFolders []string `json:"EnableContentDeletionFromFolders"`
	EnableContentDownloading         bool     `json:"EnableContentDownloading"`
	EnableSyncTranscoding            bool     `json:"EnableSyncTranscoding"`
	EnableMediaConversion            bool     `json:"EnableMediaConversion"`
	EnabledDevices                   []string `json:"EnabledDevices"`
	EnableAllDevices                 bool     `json:"EnableAllDevices"`
	EnabledChannels                  []string `json:"EnabledChannels"`
	EnableAllChannels                bool     `json:"EnableAllChannels"`
	EnabledFolders                   []string `json:"EnabledFolders"`
	EnableAllFolders                 bool     `json:"EnableAllFolders"`
	InvalidLoginAttemptCount         int      `json:"InvalidLoginAttemptCount"`
	LoginAttemptsBeforeLockout       int      `json:"LoginAttemptsBeforeLockout"`
	MaxActiveSessions                int      `json:"MaxActiveSessions"`
	EnablePublicSharing              bool     `json:"EnablePublicSharing"`
	BlockedMediaFolders              []string `json:"BlockedMediaFolders"`
	BlockedChannels                  []string `json:"BlockedChannels"`
	RemoteClientBitrateLimit         int      `json:"RemoteClientBitrateLimit"`
	AuthenticationProviderID         string   `json:"AuthenticationProviderId"`
	PasswordResetProviderID          string   `json:"PasswordResetProviderId"`
	SyncPlayAccess                   string   `json:"SyncPlayAccess"`
}

type SessionInfo struct {
	PlayState                PlayState    `json:"PlayState"`
	AdditionalUsers          []string     `json:"AdditionalUsers"`
	Capabilities             Capabilities `json:"Capabilities"`
	RemoteEndPoint           string       `json:"RemoteEndPoint"`
	PlayableMediaTypes       []string     `json:"PlayableMediaTypes"`
	ID                       string       `json:"Id"`
	UserID                   string       `json:"UserId"`
	UserName                 string       `json:"UserName"`
	Client                   string       `json:"Client"`
	LastActivityDate         string       `json:"LastActivityDate"`
	LastPlaybackCheckIn      string       `json:"LastPlaybackCheckIn"`
	DeviceName               string       `json:"DeviceName"`
	DeviceID                 string       `json:"DeviceId"`
	ApplicationVersion       string       `json:"ApplicationVersion"`
	IsActive                 bool         `json:"IsActive"`
	SupportsMediaControl     bool         `json:"SupportsMediaControl"`
	SupportsRemoteControl    bool         `json:"SupportsRemoteControl"`
	NowPlayingQueue          []string     `json:"NowPlayingQueue"`
	NowPlayingQueueFullItems []string     `json:"NowPlayingQueueFullItems"`
	HasCustomDeviceName      bool         `json:"HasCustomDeviceName"`
	ServerID                 string       `json:"ServerId"`
	SupportedCommands        []string     `json:"SupportedCommands"`
}

type PlayState struct {
	CanSeek       bool   `json:"CanSeek"`
	IsPaused      bool   `json:"IsPaused"`
	IsMuted       bool   `json:"IsMuted"`
	RepeatMode    string `json:"RepeatMode"`
	PlaybackOrder string `json:"PlaybackOrder"`
}

type Capabilities struct {
	PlayableMediaTypes           []string `json:"PlayableMediaTypes"`
	SupportedCommands            []string `json:"SupportedCommands"`
	SupportsMediaControl         bool     `json:"SupportsMediaControl"`
	SupportsPersistentIdentifier bool     `json:"SupportsPersistentIdentifier"`
}
