package config

// Values shipped in .env.example. Running with them is allowed but logged.
const (
	exampleDBPassword = "change_this_secure_password"
	exampleAPIKey     = "generate_with_openssl_rand_hex_32"
)

// Warnings lists settings that load fine but are probably mistakes.
func (c *Config) Warnings() []string {
	var out []string

	if c.APIKey == exampleAPIKey {
		out = append(out, "API_KEY is the example value; generate one with: openssl rand -hex 32")
	}
	if c.Store == StorePostgres && c.DBPassword == exampleDBPassword {
		out = append(out, "DB_PASSWORD is the example value")
	}
	if c.Store == StoreMemory && c.Environment == EnvironmentProduction {
		out = append(out, "STORE=memory in production loses all balances and pity on restart")
	}
	if (c.DiscordToken == "") != (c.DiscordJackpotChannelID == "") {
		out = append(out, "DISCORD_TOKEN and DISCORD_JACKPOT_CHANNEL_ID must both be set; jackpot announcements stay disabled")
	}
	if c.RedisAddr == "" && c.RedisPassword != "" {
		out = append(out, "REDIS_PASSWORD is set without REDIS_ADDR; using the in-process jackpot cache")
	}
	return out
}
