package main

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/doingodswork/ertflix-jellyfin/pkg/jellyfin"
)

type config struct {
	BindAddr           string        `json:"bindAddr"`
	Port               int           `json:"port"`
	BaseURLertflix     string        `json:"baseURLertflix"`
	PlatformCodename   string        `json:"platformCodename"`
	PageCodename       string        `json:"pageCodename"`
	PageLimit          int           `json:"pageLimit"`
	SectionLimit       int           `json:"sectionLimit"`
	TileBatchSize      int           `json:"tileBatchSize"`
	MovieCodename      string        `json:"movieCodename"`
	ShowCodename       string        `json:"showCodename"`
	DirectSectionFetch bool          `json:"directSectionFetch"`
	Timeout            time.Duration `json:"timeout"`
	MaxRetries         int           `json:"maxRetries"`
	RetryDelay         time.Duration `json:"retryDelay"`
	CacheAge           time.Duration `json:"cacheAge"`
	RedisAddr          string        `json:"redisAddr"`
	// Not logged
	RedisCreds   string   `json:"-"`
	ExtraHeaders []string `json:"extraHeaders"`
	ServerID     string   `json:"serverID"`
	ServerName   string   `json:"serverName"`
	LocalAddress string   `json:"localAddress"`
	UserName     string   `json:"userName"`
	LogLevel     string   `json:"logLevel"`
	LogEncoding  string   `json:"logEncoding"`
	EnvPrefix    string   `json:"envPrefix"`
}

func parseConfig(logger *zap.Logger) config {
	result := config{}

	// Flags
	var (
		bindAddr           = flag.String("bindAddr", "localhost", `Local interface address to bind to. "localhost" only allows access from the local host. "0.0.0.0" binds to all network interfaces.`)
		port               = flag.Int("port", 25860, "Port to listen on")
		baseURLertflix     = flag.String("baseURLertflix", "https://api.app.ertflix.gr", "Base URL of the ERTFLIX API")
		platformCodename   = flag.String("platformCodename", "www", "Platform codename that's sent to the ERTFLIX API")
		pageCodename       = flag.String("pageCodename", "mainpage", "Codename of the ERTFLIX page whose sections make up the catalog")
		pageLimit          = flag.Int("pageLimit", 100, "Number of sections to request from the page content endpoint")
		sectionLimit       = flag.Int("sectionLimit", 1000, "Number of tiles to request from the section content endpoint")
		tileBatchSize      = flag.Int("tileBatchSize", 0, "Maximum number of tile IDs per batch request to the ERTFLIX API. 0 means all tiles of a section are requested at once.")
		movieCodename      = flag.String("movieCodename", "ert-oles-oi-tainies", `Toplist codename of the section with all movies. ERTFLIX has changed it before, for example to "oles-oi-tainies-1".`)
		showCodename       = flag.String("showCodename", "ert-seires-plereis", "Toplist codename of the section with all complete TV series")
		directSectionFetch = flag.Bool("directSectionFetch", false, "Fetch the movie and TV show sections via the section content endpoint instead of scanning the whole catalog")
		timeout            = flag.Duration("timeout", 30*time.Second, "Timeout for a single request to the ERTFLIX API. The format must be acceptable by Go's 'time.ParseDuration()', for example \"30s\".")
		maxRetries         = flag.Int("maxRetries", 3, "Maximum number of retries of a failed request to the ERTFLIX API. Only network errors, timeouts, 5xx and 429 responses are retried.")
		retryDelay         = flag.Duration("retryDelay", 250*time.Millisecond, "Delay between retries of requests to the ERTFLIX API")
		cacheAge           = flag.Duration("cacheAge", 0, "Max age of cached movie, TV show and collection lists. 0 disables caching, so every request leads to requests to the ERTFLIX API.")
		redisAddr          = flag.String("redisAddr", "", `Redis host and port, for example "localhost:6379". It's used for the result cache. Keep empty to use in-memory go-cache.`)
		redisCreds         = flag.String("redisCreds", "", `Credentials for Redis. Password for Redis version 5 and older, username and password for Redis version 6 and newer. Use the colon character (":") for separating username and password. This implies you can't use a colon in the password when using Redis version 5 or older.`)
		extraHeaders       = flag.String("extraHeaders", "", `Additional HTTP request headers to set for requests to the ERTFLIX API, in a format like "X-Foo: bar", separated by newline characters ("\n")`)
		serverID           = flag.String("serverID", "", "Server ID that's sent to Jellyfin clients. If empty, it's derived from the server name.")
		serverName         = flag.String("serverName", "Ertflix Adapter", "Server name that's sent to Jellyfin clients")
		localAddress       = flag.String("localAddress", "http://localhost:25860", "Address of this service that's sent to Jellyfin clients")
		userName           = flag.String("userName", "ertflix", "Name of the user for clients that don't send one when authenticating")
		logLevel           = flag.String("logLevel", "debug", `Log level to show only logs with the given and more severe levels. Can be "debug", "info", "warn", "error".`)
		logEncoding        = flag.String("logEncoding", "console", `Log encoding. Can be "console" or "json", where "json" makes more sense when using centralized logging solutions like ELK, Graylog or Loki.`)
		envPrefix          = flag.String("envPrefix", "", "Prefix for environment variables")
	)

	flag.Parse()

	if *envPrefix != "" && !strings.HasSuffix(*envPrefix, "_") {
		*envPrefix += "_"
	}
	result.EnvPrefix = *envPrefix

	// Only overwrite the values by their env var counterparts that have not been set (and that *are* set via env var).
	envString := func(arg, envVar string, target *string) {
		if !isArgSet(arg) {
			if val, ok := os.LookupEnv(*envPrefix + envVar); ok {
				*target = val
			}
		}
	}
	envInt := func(arg, envVar string, target *int) {
		if !isArgSet(arg) {
			if val, ok := os.LookupEnv(*envPrefix + envVar); ok {
				var err error
				if *target, err = strconv.Atoi(val); err != nil {
					logger.Fatal("Couldn't convert environment variable from string to int", zap.Error(err), zap.String("envVar", envVar))
				}
			}
		}
	}
	envBool := func(arg, envVar string, target *bool) {
		if !isArgSet(arg) {
			if val, ok := os.LookupEnv(*envPrefix + envVar); ok {
				var err error
				if *target, err = strconv.ParseBool(val); err != nil {
					logger.Fatal("Couldn't convert environment variable from string to bool", zap.Error(err), zap.String("envVar", envVar))
				}
			}
		}
	}
	envDuration := func(arg, envVar string, target *time.Duration) {
		if !isArgSet(arg) {
			if val, ok := os.LookupEnv(*envPrefix + envVar); ok {
				var err error
				if *target, err = time.ParseDuration(val); err != nil {
					logger.Fatal("Couldn't convert environment variable from string to time.Duration", zap.Error(err), zap.String("envVar", envVar))
				}
			}
		}
	}

	envString("bindAddr", "BIND_ADDR", bindAddr)
	result.BindAddr = *bindAddr
	envInt("port", "PORT", port)
	result.Port = *port
	envString("baseURLertflix", "BASE_URL_ERTFLIX", baseURLertflix)
	result.BaseURLertflix = *baseURLertflix
	envString("platformCodename", "PLATFORM_CODENAME", platformCodename)
	result.PlatformCodename = *platformCodename
	envString("pageCodename", "PAGE_CODENAME", pageCodename)
	result.PageCodename = *pageCodename
	envInt("pageLimit", "PAGE_LIMIT", pageLimit)
	result.PageLimit = *pageLimit
	envInt("sectionLimit", "SECTION_LIMIT", sectionLimit)
	result.SectionLimit = *sectionLimit
	envInt("tileBatchSize", "TILE_BATCH_SIZE", tileBatchSize)
	result.TileBatchSize = *tileBatchSize
	envString("movieCodename", "MOVIE_CODENAME", movieCodename)
	result.MovieCodename = *movieCodename
	envString("showCodename", "SHOW_CODENAME", showCodename)
	result.ShowCodename = *showCodename
	envBool("directSectionFetch", "DIRECT_SECTION_FETCH", directSectionFetch)
	result.DirectSectionFetch = *directSectionFetch
	envDuration("timeout", "TIMEOUT", timeout)
	result.Timeout = *timeout
	envInt("maxRetries", "MAX_RETRIES", maxRetries)
	result.MaxRetries = *maxRetries
	envDuration("retryDelay", "RETRY_DELAY", retryDelay)
	result.RetryDelay = *retryDelay
	envDuration("cacheAge", "CACHE_AGE", cacheAge)
	result.CacheAge = *cacheAge
	envString("redisAddr", "REDIS_ADDR", redisAddr)
	result.RedisAddr = *redisAddr
	envString("redisCreds", "REDIS_CREDS", redisCreds)
	result.RedisCreds = *redisCreds
	envString("extraHeaders", "EXTRA_HEADERS", extraHeaders)
	result.ExtraHeaders = splitHeaders(*extraHeaders)
	envString("serverID", "SERVER_ID", serverID)
	result.ServerID = *serverID
	envString("serverName", "SERVER_NAME", serverName)
	result.ServerName = *serverName
	envString("localAddress", "LOCAL_ADDRESS", localAddress)
	result.LocalAddress = *localAddress
	envString("userName", "USER_NAME", userName)
	result.UserName = *userName
	envString("logLevel", "LOG_LEVEL", logLevel)
	result.LogLevel = *logLevel
	envString("logEncoding", "LOG_ENCODING", logEncoding)
	result.LogEncoding = *logEncoding

	return result
}

func splitHeaders(s string) []string {
	var result []string
	for _, header := range strings.Split(s, "\n") {
		header = strings.TrimSpace(header)
		if header != "" {
			result = append(result, header)
		}
	}
	return result
}

// validate normalizes derived values and returns all violations.
func (c *config) validate() error {
	var err error

	if c.Port <= 0 || c.Port > 65535 {
		err = multierr.Append(err, errors.New("port must be between 1 and 65535"))
	}
	if c.BaseURLertflix == "" {
		err = multierr.Append(err, errors.New("baseURLertflix must not be empty"))
	}
	c.BaseURLertflix = strings.TrimSuffix(c.BaseURLertflix, "/")
	if c.PlatformCodename == "" {
		err = multierr.Append(err, errors.New("platformCodename must not be empty"))
	}
	if c.MovieCodename == "" {
		err = multierr.Append(err, errors.New("movieCodename must not be empty"))
	}
	if c.ShowCodename == "" {
		err = multierr.Append(err, errors.New("showCodename must not be empty"))
	}
	if c.PageLimit <= 0 {
		err = multierr.Append(err, errors.New("pageLimit must be positive"))
	}
	if c.SectionLimit <= 0 {
		err = multierr.Append(err, errors.New("sectionLimit must be positive"))
	}
	if c.TileBatchSize < 0 {
		err = multierr.Append(err, errors.New("tileBatchSize must not be negative"))
	}
	if c.Timeout <= 0 {
		err = multierr.Append(err, errors.New("timeout must be positive"))
	}
	if c.MaxRetries < 0 {
		err = multierr.Append(err, errors.New("maxRetries must not be negative"))
	}
	if c.MaxRetries > 0 && c.RetryDelay <= 0 {
		err = multierr.Append(err, errors.New("retryDelay must be positive when retries are enabled"))
	}
	if c.CacheAge < 0 {
		err = multierr.Append(err, errors.New("cacheAge must not be negative"))
	}
	if c.RedisCreds != "" && c.RedisAddr == "" {
		err = multierr.Append(err, errors.New("redisCreds requires redisAddr"))
	}
	for _, header := range c.ExtraHeaders {
		colonIndex := strings.Index(header, ":")
		if colonIndex <= 0 || colonIndex == len(header)-1 {
			err = multierr.Append(err, errors.New(`extraHeaders elements must have a format like "X-Foo: bar"`))
			break
		}
	}
	if c.ServerName == "" {
		err = multierr.Append(err, errors.New("serverName must not be empty"))
	}
	if c.ServerID == "" {
		c.ServerID = jellyfin.ServerIDFromName(c.ServerName)
	}
	if c.UserName == "" {
		err = multierr.Append(err, errors.New("userName must not be empty"))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, errors.New(`logLevel must be one of "debug", "info", "warn", "error"`))
	}
	if c.LogEncoding != "console" && c.LogEncoding != "json" {
		err = multierr.Append(err, errors.New(`logEncoding must be one of "console" or "json"`))
	}

	return err
}

// redisCredentials splits the Redis credentials into username and password.
// Without a colon the whole value is the password.
func (c *config) redisCredentials() (string, string) {
	if c.RedisCreds == "" {
		return "", ""
	}
	if strings.Contains(c.RedisCreds, ":") {
		parts := strings.SplitN(c.RedisCreds, ":", 2)
		return parts[0], parts[1]
	}
	return "", c.RedisCreds
}

// isArgSet returns true if the argument you're looking for is actually set as command line argument.
// Pass without "-" prefix.
func isArgSet(arg string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == arg {
			found = true
		}
	})
	return found
}
