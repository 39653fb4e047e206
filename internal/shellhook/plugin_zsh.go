package shellhook

// ZshPlugin is the zsh plugin source. preexec logs a start marker for each
// command; precmd logs the matching end marker with the exit status. The
// shell pid doubles as the terminal id so concurrent shells stay separable.
const ZshPlugin = `# devpulse shell plugin — auto-generated, do not edit manually
# Source this file from your ~/.zshrc:
#   source ~/.config/devpulse/devpulse.plugin.zsh

_devpulse_log_file="${XDG_DATA_HOME:-$HOME/.local/share}/devpulse/commands.log"
_devpulse_last_cmd=""

_devpulse_preexec() {
  local cmd="$1"
  # Skip devpulse's own invocations.
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

autoload -Uz add-zsh-hook
add-zsh-hook preexec _devpulse_preexec
add-zsh-hook precmd _devpulse_precmd
`
