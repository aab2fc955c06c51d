package constants

// Redis Key 前缀和对象存储路径
// 使用统一的命名规范: {app}:{module}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "resume"

	// ExtractModulePrefix 抽取模块
	ExtractModulePrefix = "extract"

	// RedisKeyPrefix 抽取结果缓存 (STRING)
	// 格式: resume:extract:{sha256(format, content)}
	RedisKeyPrefix = AppPrefix + ":" + ExtractModulePrefix + ":"

	// TranscriptObjectPrefix 调试报告对象，格式: transcripts/{run_id}.txt
	TranscriptObjectPrefix = "transcripts/"
	// ResultObjectPrefix 结果 JSON 对象，格式: results/{run_id}.json
	ResultObjectPrefix = "results/"
)
