package shellhook

// BashPlugin is the bash plugin source. A DEBUG trap logs start markers and
// PROMPT_COMMAND logs the end marker with $?. Bash fires the DEBUG trap per
// simple command, so compound lines log once per part; end markers still pair
// with the last start from this shell.
const BashPlugin = `# devpulse shell plugin — auto-generated, do not edit manually
# Source this file from your ~/.bashrc:
#   source ~/.config/devpulse/devpulse.plugin.bash

_devpulse_log_file="${XDG_DATA_HOME:-$HOME/.local/share}/devpulse/commands.log"
_devpulse_last_cmd=""

_devpulse_preexec() {
  local cmd="$BASH_COMMAND"
  [[ "$cmd" == "$PROMPT_COMMAND" ]] && return
  [[ "$cmd" =~ ^[[:space:]]*(.*\/)?devpulse[[:space:]] ]] && return
  mkdir -p "${_devpulse_log_file%/*}"
  _devpulse_last_cmd="$cmd"
  printf 'start\t%s\t%s\t%s\n' "$(date +%s)" "$$" "$cmd" >> "$_devpulse_log_file"
}

_devpulse_precmd() {
  local code=$?
  [[ -n "$_devpulse_last_cmd" ]] || return
  printf 'end\t%s\t%s\t%s\t%s\n' "$(date +%s)" "$$" "$code" "$_devpulse_last_cmd" >> "$_devpulse_log_file"
  _devpulse_last_cmd=""
}

trap '_devpulse_preexec' DEBUG
PROMPT_COMMAND="_devpulse_precmd${PROMPT_COMMAND:+;$PROMPT_COMMAND}"
`
