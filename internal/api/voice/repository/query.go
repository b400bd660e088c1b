package voiceRepository

const (
	queryCreateCommand = `
		INSERT INTO voice_commands (
			id, session_id, transcript, page, kind,
			rule, target, outcome, speech, created_at
		) VALUES (
			:id, :session_id, :transcript, :page, :kind,
			:rule, :target, :outcome, :speech, :created_at
		)
	`

	queryGetCommandsBySessionID = `
		SELECT
			id, session_id, transcript, page, kind,
			rule, target, outcome, speech, created_at
		FROM voice_commands
		WHERE session_id = :session_id
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountCommandsBySessionID = `
		SELECT COUNT(*)
		FROM voice_commands
		WHERE session_id = :session_id
	`

	queryGetCommandStats = `
		SELECT kind, outcome, COUNT(*) AS total
		FROM voice_commands
		WHERE created_at >= :since
		GROUP BY kind, outcome
		ORDER BY kind, outcome
	`

	queryCreateRule = `
		INSERT INTO command_rules (
			name, keywords, kind, path, theme,
			position, is_active, created_at, updated_at
		) VALUES (
			:name, :keywords, :kind, :path, :theme,
			:position, :is_active, :created_at, :updated_at
		)
	`

	queryGetRuleByName = `
		SELECT
			name, keywords, kind, path, theme,
			position, is_active, created_at, updated_at
		FROM command_rules
		WHERE name = :name
	`

	queryGetAllRules = `
		SELECT
			name, keywords, kind, path, theme,
			position, is_active, created_at, updated_at
		FROM command_rules
		ORDER BY position, name
	`

	queryGetActiveRules = `
		SELECT
			name, keywords, kind, path, theme,
			position, is_active, created_at, updated_at
		FROM command_rules
		WHERE is_active = true
		ORDER BY position, name
	`

	queryUpdateRule = `
		UPDATE command_rules
		SET
			keywords = :keywords,
			kind = :kind,
			path = :path,
			theme = :theme,
			position = :position,
			is_active = :is_active,
			updated_at = :updated_at
		WHERE name = :name
	`

	queryDeleteRule = `
		DELETE FROM command_rules
		WHERE name = :name
	`
)
