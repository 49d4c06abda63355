package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"    // time expresses the booking hold and sweep durations
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Durations are expressed in the units the
// variable names carry (minutes or seconds).
type Config struct {
    Env           string        // application environment (e.g. "dev", "prod")
    Port          string        // HTTP port to listen on
    DBUser        string        // database username
    DBPass        string        // database password (optional)
    DBHost        string        // database host address
    DBPort        string        // database port number
    DBName        string        // database name
    JWTSecret     string        // secret used to verify JWTs
    HoldWindow    time.Duration // how long an unpaid booking holds its slot
    SweepInterval time.Duration // period of the expiration sweeper
    CheckInEarly  time.Duration // how early before start check-in opens
    VerifyBaseURL string        // public verify endpoint encoded into QR codes
    PayBaseURL    string        // base URL of the mock payment checkout
    DayOpen       string        // "HH:mm" start of the bookable day
    DayClose      string        // "HH:mm" end of the bookable day
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
// Booking tunables fall back to sensible defaults.
func Load() Config {
    return Config{
        Env:           must("APP_ENV"),
        Port:          must("APP_PORT"),
        DBUser:        must("DB_USER"),
        DBPass:        os.Getenv("DB_PASS"), // empty allowed
        DBHost:        must("DB_HOST"),
        DBPort:        must("DB_PORT"),
        DBName:        must("DB_NAME"),
        JWTSecret:     must("JWT_SECRET"),
        HoldWindow:    time.Duration(optInt("HOLD_WINDOW_MIN", 10)) * time.Minute,
        SweepInterval: time.Duration(optInt("SWEEP_INTERVAL_SEC", 60)) * time.Second,
        CheckInEarly:  time.Duration(optInt("CHECKIN_EARLY_MIN", 15)) * time.Minute,
        VerifyBaseURL: opt("VERIFY_BASE_URL", "http://localhost:8080/verify"),
        PayBaseURL:    opt("PAY_BASE_URL", "https://pay.example.com"),
        DayOpen:       opt("DAY_OPEN", "06:00"),
        DayClose:      opt("DAY_CLOSE", "23:00"),
    }
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// opt retrieves an optional environment variable, falling back to the
// provided default when unset or empty.
func opt(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

// optInt is like opt() but converts the value into an integer. Invalid
// values fall back to the default rather than aborting startup.
func optInt(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        log.Printf("invalid int for %s: %q, using default %d", key, v, def)
        return def
    }
    return n
}
