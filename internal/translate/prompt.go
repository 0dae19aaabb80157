package translate

const translatePrompt = `Analyze these conversation messages and translate any non-English messages to English.

MESSAGES:
%s

For each message:
1. Detect the language
2. If not English, provide an English translation
3. If already English, leave translation as null

Return a JSON object:
{
  "detected_language": "the primary non-English language detected, or 'English' if all messages are in English",
  "translations": [
    {"index": 0, "original_language": "Spanish", "translation": "English translation here"},
    {"index": 1, "original_language": "English", "translation": null},
    ...
  ]
}

Only output valid JSON.`
