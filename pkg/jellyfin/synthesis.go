package jellyfin

import (
	"time"

	"github.com/google/uuid"

	"github.com/doingodswork/ertflix-jellyfin/pkg/catalog"
)

func NewSystemInfo(identity Identity) SystemInfo {
	return SystemInfo{
		LocalAddress:           identity.LocalAddress,
		ServerName:             identity.ServerName,
		Version:                version,
		ProductName:            productName,
		OperatingSystem:        operatingSystem,
		ID:                     identity.ServerID,
		StartupWizardCompleted: true,
	}
}

// NewCollection creates a library from a catalog collection.
// Apart from the name, ID and etag all fields have fixed values.
func NewCollection(identity Identity, collection catalog.Collection, now time.Time) Collection {
	return Collection{
		Name:                     collection.Name,
		ServerID:                 identity.ServerID,
		ID:                       collection.ID,
		Etag:                     Etag(collection.ID, collection.Name),
		DateCreated:              Timestamp(now),
		CanDelete:                true,
		CanDownload:              true,
		SortName:                 "movies",
		ExternalUrls:             []string{},
		Path:                     "",
		EnableMediaSourceDisplay: false,
		ChannelID:                nil,
		Taglines:                 []string{},
		Genres:                   []string{},
		PlayAccess:               "Full",
		RemoteTrailers:           []string{},
		ProviderIDs:              map[string]string{},
		IsFolder:                 true,
		ParentID:                 "",
		Type:                     "CollectionFolder",
		People:                   []string{},
		Studios:                  []string{},
		GenreItems:               []string{},
		LocalTrailerCount:        0,
		UserData:                 newUserData(collection.ID),
		ChildCount:               0,
		SpecialFeatureCount:      0,
		DisplayPreferencesID:     "",
		Tags:                     []string{},
		PrimaryImageAspectRatio:  0,
		CollectionType:           "",
		ImageTags:                ImageTags{Primary: zeroID},
		BackdropImageTags:        []string{},
		ImageBlurHashes: ImageBlurHashes{
			Primary: map[string]string{"4183b69eb08fcd80b087bdf0cdd36c7c": "000"},
		},
		LocationType: "FileSystem",
		MediaType:    "Unknown",
		LockedFields: []string{},
		LockData:     false,
	}
}

// NewCollections wraps the libraries for all catalog collections.
func NewCollections(identity Identity, collections []catalog.Collection, now time.Time) QueryResult[Collection] {
	items := make([]Collection, 0, len(collections))
	for _, collection := range collections {
		items = append(items, NewCollection(identity, collection, now))
	}
	return newQueryResult(items)
}

// NewItem creates the item for an entry of the collection with the ID parentID.
func NewItem(identity Identity, parentID string, entry catalog.CollectionEntry, now time.Time) Item {
	return Item{
		Name:              entry.Name,
		ServerID:          identity.ServerID,
		ID:                entry.ID,
		Etag:              Etag(entry.ID, entry.Name),
		DateCreated:       Timestamp(now),
		CanDelete:         false,
		CanDownload:       false,
		SortName:          entry.Name,
		ParentID:          parentID,
		Type:              "Video",
		IsFolder:          false,
		PlayAccess:        "Full",
		ProviderIDs:       map[string]string{},
		UserData:          newUserData(entry.ID),
		ImageTags:         map[string]string{},
		BackdropImageTags: []string{},
		LocationType:      "Remote",
		MediaType:         "Video",
	}
}

func NewItems(identity Identity, parentID string, entries []catalog.CollectionEntry, now time.Time) QueryResult[Item] {
	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, NewItem(identity, parentID, entry, now))
	}
	return newQueryResult(items)
}

func newQueryResult[T any](items []T) QueryResult[T] {
	return QueryResult[T]{
		Items:            items,
		TotalRecordCount: len(items),
		StartIndex:       0,
	}
}

func newUserData(itemID string) UserData {
	return UserData{
		PlaybackPositionTicks: 0,
		PlayCount:             0,
		IsFavorite:            false,
		Played:                false,
		Key:                   uuid.NewSHA1(uuid.NameSpaceURL, []byte(itemID)).String(),
		ItemID:                zeroID,
	}
}

// NewAuthenticationResponse grants access to any user.
// The access token and session ID are random, the user ID is stable per user name.
func NewAuthenticationResponse(identity Identity, userName string, header AuthHeader, now time.Time) AuthenticationResponse {
	if userName == "" {
		userName = identity.UserName
	}
	user := NewUser(identity, userName, now)
	return AuthenticationResponse{
		User:        user,
		SessionInfo: NewSessionInfo(identity, user, header, now),
		AccessToken: uuid.New().String(),
		ServerID:    identity.ServerID,
	}
}

func NewUser(identity Identity, userName string, now time.Time) User {
	timestamp := Timestamp(now)
	return User{
		Name:                      userName,
		ServerID:                  identity.ServerID,
		ID:                        identity.UserID(userName),
		HasPassword:               true,
		HasConfiguredPassword:     true,
		HasConfiguredEasyPassword: false,
		EnableAutoLogin:           false,
		LastLoginDate:             timestamp,
		LastActivityDate:          timestamp,
		Configuration:             defaultConfiguration(),
		Policy:                    defaultPolicy(),
	}
}

// NewSessionInfo creates a session for the user with the device info of the auth header.
func NewSessionInfo(identity Identity, user User, header AuthHeader, now time.Time) SessionInfo {
	timestamp := Timestamp(now)
	return SessionInfo{
		PlayState: PlayState{
			RepeatMode:    "RepeatNone",
			PlaybackOrder: "Default",
		},
		AdditionalUsers: []string{},
		Capabilities: Capabilities{
			PlayableMediaTypes: []string{},
			SupportedCommands:  []string{},
		},
		RemoteEndPoint:           "",
		PlayableMediaTypes:       []string{},
		ID:                       uuid.New().String(),
		UserID:                   user.ID,
		UserName:                 user.Name,
		Client:                   header.Client,
		LastActivityDate:         timestamp,
		LastPlaybackCheckIn:      timestamp,
		DeviceName:               header.Device,
		DeviceID:                 header.DeviceID,
		ApplicationVersion:       header.Version,
		IsActive:                 false,
		SupportsMediaControl:     false,
		SupportsRemoteControl:    false,
		NowPlayingQueue:          []string{},
		NowPlayingQueueFullItems: []string{},
		HasCustomDeviceName:      false,
		ServerID:                 identity.ServerID,
		SupportedCommands:        []string{},
	}
}

func defaultConfiguration() Configuration {
	return Configuration{
		AudioLanguagePreference:    "eng",
		PlayDefaultAudioTrack:      true,
		SubtitleLanguagePreference: "eng",
		DisplayMissingEpisodes:     false,
		GroupedFolders:             []string{},
		SubtitleMode:               "Always",
		DisplayCollectionsView:     false,
		EnableLocalPassword:        false,
		OrderedViews:               []string{},
		LatestItemsExcludes:        []string{},
		MyMediaExcludes:            []string{},
		HidePlayedInLatest:         true,
		RememberAudioSelections:    true,
		RememberSubtitleSelections: true,
		EnableNextEpisodeAutoPlay:  true,
		CastReceiverID:             "",
	}
}

func defaultPolicy() Policy {
	return Policy{
		IsAdministrator:                  true,
		IsHidden:                         false,
		EnableCollectionManagement:       false,
		EnableSubtitleManagement:         false,
		EnableLyricManagement:            false,
		IsDisabled:                       false,
		BlockedTags:                      []string{},
		AllowedTags:                      []string{},
		EnableUserPreferenceAccess:       true,
		AccessSchedules:                  []string{},
		BlockUnratedItems:                []string{},
		EnableRemoteControlOfOtherUsers:  true,
		EnableSharedDeviceControl:        true,
		EnableRemoteAccess:               true,
		EnableLiveTvManagement:           true,
		EnableLiveTvAccess:               true,
		EnableMediaPlayback:              true,
		EnableAudioPlaybackTranscoding:   true,
		EnableVideoPlaybackTranscoding:   true,
		EnablePlaybackRemuxing:           true,
		ForceRemoteSourceTranscoding:     false,
		EnableContentDeletion:            true,
		EnableContentDeletionFromFolders: []string{},
		EnableContentDownloading:         true,
		EnableSyncTranscoding:            true,
		EnableMediaConversion:            true,
		EnabledDevices:                   []string{},
		EnableAllDevices:                 true,
		EnabledChannels:                  []string{},
		EnableAllChannels:                true,
		EnabledFolders:                   []string{},
		EnableAllFolders:                 true,
		InvalidLoginAttemptCount:         0,
		LoginAttemptsBeforeLockout:       -1,
		MaxActiveSessions:                0,
		EnablePublicSharing:              true,
		BlockedMediaFolders:              []string{},
		BlockedChannels:                  []string{},
		RemoteClientBitrateLimit:         0,
		AuthenticationProviderID:         "Jellyfin.Server.Implementations.Users.DefaultAuthenticationProvider",
		PasswordResetProviderID:          "Jellyfin.Server.Implementations.Users.DefaultPasswordResetProvider",
		SyncPlayAccess:                   "CreateAndJoinGroups",
	}
}
